package buildtags

//stepgen:builder
type Car struct {
	Model string
}
