package ui

// Route is a dashboard path.
type Route string

const (
	RouteHome         Route = "/"
	RouteUpload       Route = "/upload"
	RouteAbundance    Route = "/abundance"
	RouteDiversity    Route = "/diversity"
	RouteNovelTaxa    Route = "/novel-taxa"
	RouteTaxaExplorer Route = "/taxa-explorer"
	RouteChatbot      Route = "/chatbot"
)

type navItem struct {
	route Route
	label string
}

// navItems is the drawer order; keys 1-7 select by index.
var navItems = []navItem{
	{RouteHome, "Overview"},
	{RouteUpload, "Upload File"},
	{RouteAbundance, "Abundance"},
	{RouteDiversity, "Diversity Analytics"},
	{RouteNovelTaxa, "Novel Taxa"},
	{RouteTaxaExplorer, "Taxa Explorer"},
	{RouteChatbot, "E-DNA Bot"},
}

// ParseRoute maps a path to a known route. Unknown paths fall back to home.
func ParseRoute(path string) Route {
	for _, it := range navItems {
		if string(it.route) == path {
			return it.route
		}
	}
	return RouteHome
}

// Title is the drawer label of r.
func (r Route) Title() string {
	for _, it := range navItems {
		if it.route == r {
			return it.label
		}
	}
	return ""
}

// Router tracks the current route and a back stack.
type Router struct {
	current Route
	back    []Route
}

func NewRouter(start string) *Router {
	return &Router{current: ParseRoute(start)}
}

func (r *Router) Current() Route { return r.current }

// Navigate switches to path and reports whether the route changed.
func (r *Router) Navigate(path string) bool {
	next := ParseRoute(path)
	if next == r.current {
		return false
	}
	r.back = append(r.back, r.current)
	r.current = next
	return true
}

// Back returns to the previous route, if any.
func (r *Router) Back() bool {
	if len(r.back) == 0 {
		return false
	}
	r.current = r.back[len(r.back)-1]
	r.back = r.back[:len(r.back)-1]
	return true
}

// Drawer is the collapsible navigation panel.
type Drawer struct {
	open  bool
	hover int
}

const drawerWidth = 220

func (d *Drawer) Open() bool { return d.open }
func (d *Drawer) Toggle()    { d.open = !d.open }
func (d *Drawer) Close()     { d.open = false }

// itemAt returns the nav index under y, or -1.
func (d *Drawer) itemAt(x, y int) int {
	if !d.open || x < 0 || x >= drawerWidth {
		return -1
	}
	i := (y - drawerTop) / drawerRow
	if y < drawerTop || i >= len(navItems) {
		return -1
	}
	return i
}

const (
	drawerTop = 60
	drawerRow = 36
)

// keyRoute maps a digit key index (0 for "1") to a route.
func keyRoute(i int) (Route, bool) {
	if i < 0 || i >= len(navItems) {
		return "", false
	}
	return navItems[i].route, true
}
