package lenticalib

var (
	Debug = false // set to true for verbose debug output
	PNG   = false // set to true to save a PNG of every batch frame
	RAW   = false // set to true to save a raw dump of every batch frame
	// Compile time checks
	_ Sampler = (*Lens)(nil)
)
