package badtag

//stepgen:builder
type Tagged struct {
	Name string `step:"required"`
}
