package common

// NavItem is one entry of the top navigation.
type NavItem struct {
	Label string
	Path  string
}

// Nav lists the pages of the UI.
var Nav = []NavItem{
	{Label: "Query Builder", Path: "/"},
	{Label: "Explorer", Path: "/explorer"},
	{Label: "History", Path: "/history"},
}

// PageData holds what the page shell needs.
type PageData struct {
	Title       string
	CurrentPath string
	IsDev       bool
}
