// Package app declares the contract between cmd/* binaries and the
// long-running components they launch. Mains stay thin: load the
// configuration, construct a Runner, hand over control.
package app

// Runner is a blocking application component. Run returns once the
// component has fully stopped, carrying the error that ended it.
type Runner interface {
	Run() error
}
