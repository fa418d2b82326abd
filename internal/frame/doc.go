// Package frame captures rendered surfaces into CPU pixel frames. The reader
// corrects the two readback artifacts in a single pass: linear-to-display
// gamma via a byte lookup table, and the bottom-to-top row order surfaces
// hand back.
package frame
