package buildtags

//stepgen:builder
type Car struct {
	Make string `step:"mandatory"`
	Year int
}
