// Package algoutil provides small, generic algorithms shared by the other
// packages in this module.
package algoutil
