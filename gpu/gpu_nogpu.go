//go:build nogpu

// Package gpu registers the hardware accelerator for the linear
// enhancement stages. Built with the nogpu tag it registers nothing and
// every request runs on the CPU path.
package gpu
