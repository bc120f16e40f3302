package valid

//stepgen:builder
type testOnly struct{}
