// Package randbp provides randomness helpers shared by the queue packages.
package randbp
