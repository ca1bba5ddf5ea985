package testdata

import (
	"github.com/quayside/ward/types"
)

// A small company graph shared by test suites. Engineering and oncall both
// nest under staff, so alice reaches staff on two paths; the blue badge claim
// is attached to both of her immediate groups to exercise deduplication.
//
//	alice -> engineering -> staff
//	alice -> oncall      -> staff
//	bob   -> (no groups, no claims)
var (
	Alice = types.User("alice")
	Bob   = types.User("bob")

	Engineering = types.Group("engineering")
	Oncall      = types.Group("oncall")
	Staff       = types.Group("staff")

	AdminClaim    = types.Claim{Kind: "role", Value: "admin"}
	EmployeeClaim = types.Claim{Kind: "role", Value: "employee"}
	TeamClaim     = types.Claim{Kind: "team", Value: "eng", Issuer: "hr"}
	BadgeClaim    = types.Claim{Kind: "badge", Value: "blue"}
)

var (
	// UserClaims are attached to users directly
	UserClaims = map[types.User][]types.Claim{
		Alice: {AdminClaim},
	}

	// UserGroups are immediate memberships
	UserGroups = map[types.User][]types.Group{
		Alice: {Engineering, Oncall},
	}

	// GroupClaims are attached to the groups themselves
	GroupClaims = map[types.Group][]types.Claim{
		Engineering: {TeamClaim, BadgeClaim},
		Oncall:      {BadgeClaim},
		Staff:       {EmployeeClaim},
	}

	// Subgroups nest groups under groups
	Subgroups = map[types.Group][]types.Group{
		Engineering: {Staff},
		Oncall:      {Staff},
	}
)

// AllAliceClaims is every distinct claim alice reaches through the graph
var AllAliceClaims = []types.Claim{AdminClaim, TeamClaim, BadgeClaim, EmployeeClaim}

type claimSource interface {
	AddUserClaim(types.User, types.Claim)
	JoinGroup(types.User, types.Group)
	AddGroupClaim(types.Group, types.Claim)
	Nest(sub, parent types.Group)
}

// Load pours the fixture graph into a fake claim source
func Load(s claimSource) {
	for user, claims := range UserClaims {
		for _, c := range claims {
			s.AddUserClaim(user, c)
		}
	}
	for user, groups := range UserGroups {
		for _, g := range groups {
			s.JoinGroup(user, g)
		}
	}
	for group, claims := range GroupClaims {
		for _, c := range claims {
			s.AddGroupClaim(group, c)
		}
	}
	for parent, subs := range Subgroups {
		for _, sub := range subs {
			s.Nest(sub, parent)
		}
	}
}
