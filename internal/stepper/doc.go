// Package stepper provides frame-exact, seeded advancement of animation
// state. Reproducibility is the whole point: stepping to frame N from any
// prior state yields byte-identical callback and random-draw sequences.
package stepper
