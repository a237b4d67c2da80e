// Package platform selects a default backend at build time, mirroring the
// one-backend-per-build model: hosted builds get the POSIX simulation, RP2
// builds get the real machine-backed implementation. Applications wanting
// a different backend (periph on a Pi, mock in tests) construct it
// explicitly and hand it to hal.New.
package platform
