package primitives

// Zero overwrites b with zeros in place. It is the single point every
// function in this package (and every caller that materializes a KEK, DEK,
// or shared secret) is obligated to invoke on every exit path, including
// error paths.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
