//go:build stepgen_legacy

package buildtags

//stepgen:builder
type Car struct {
	Make string
}
