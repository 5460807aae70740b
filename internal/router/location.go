package router

import "strings"

// Location names a routed view.
type Location string

const (
	Home          Location = "home"
	Register      Location = "register"
	VerifyEmail   Location = "verify-email"
	Login         Location = "login"
	Profile       Location = "profile"
	Employees     Location = "employees"
	Accounts      Location = "accounts"
	Departments   Location = "departments"
	AdminRequests Location = "admin-requests"
	MyRequests    Location = "my-requests"
)

// Locations lists every routed location.
var Locations = []Location{
	Home, Register, VerifyEmail, Login, Profile,
	Employees, Accounts, Departments, AdminRequests, MyRequests,
}

// Route holds the access flags and hooks of one location.
type Route struct {
	Location  Location
	Auth      bool
	AdminOnly bool
	UserOnly  bool

	setup  SetupFunc
	render RenderFunc
}

func defaultRoutes() map[Location]*Route {
	routes := []*Route{
		{Location: Home},
		{Location: Register},
		{Location: VerifyEmail},
		{Location: Login},
		{Location: Profile, Auth: true},
		{Location: Employees, Auth: true, AdminOnly: true},
		{Location: Accounts, Auth: true, AdminOnly: true},
		{Location: Departments, Auth: true, AdminOnly: true},
		{Location: AdminRequests, Auth: true, AdminOnly: true},
		{Location: MyRequests, Auth: true, UserOnly: true},
	}
	m := make(map[Location]*Route, len(routes))
	for _, r := range routes {
		m[r.Location] = r
	}
	return m
}

// Parse turns a location token such as "#/verify-email", "/login" or
// "accounts" into a Location. Empty and unknown tokens resolve to Home.
func Parse(token string) Location {
	token = strings.TrimSpace(token)
	token = strings.TrimPrefix(token, "#")
	token = strings.Trim(token, "/")
	if token == "" {
		return Home
	}
	loc := Location(strings.ToLower(token))
	for _, known := range Locations {
		if loc == known {
			return loc
		}
	}
	return Home
}
