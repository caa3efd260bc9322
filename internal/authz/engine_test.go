package authz

import (
	"testing"

	"github.com/google/uuid"
)

func newActor(roles ...Role) Actor {
	return Actor{ID: uuid.New(), Roles: roles, ProfileComplete: true}
}

func TestListingVisibility(t *testing.T) {
	owner := newActor(RoleUser)
	stranger := newActor(RoleUser)
	admin := newActor(RoleAdmin)

	active := Trip{OwnerID: owner.ID, Status: "active"}
	cancelled := Trip{OwnerID: owner.ID, Status: "cancelled"}
	searching := DeliveryRequest{OwnerID: owner.ID, Status: "searching"}
	expired := DeliveryRequest{OwnerID: owner.ID, Status: "expired"}

	cases := []struct {
		name  string
		actor Actor
		cap   Capability
		res   any
		want  bool
	}{
		{"anyone views active trip", stranger, CapView, active, true},
		{"anyone views searching request", stranger, CapView, searching, true},
		{"stranger cannot view cancelled trip", stranger, CapView, cancelled, false},
		{"owner views cancelled trip", owner, CapView, cancelled, true},
		{"admin views expired request", admin, CapView, expired, true},
		{"owner edits own trip", owner, CapEdit, active, true},
		{"stranger cannot edit trip", stranger, CapEdit, active, false},
		{"stranger cannot delete request", stranger, CapDelete, searching, false},
		{"admin deletes any trip", admin, CapDelete, cancelled, true},
		{"owner deletes own request", owner, CapDelete, expired, true},
	}
	for _, tc := range cases {
		if got := Decide(tc.actor, tc.cap, tc.res); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestReviewRules(t *testing.T) {
	author := newActor(RoleUser)
	reviewed := newActor(RoleUser)
	stranger := newActor(RoleUser)
	admin := newActor(RoleAdmin)

	review := Review{AuthorID: author.ID, ReviewedID: reviewed.ID}

	if !Decide(author, CapEdit, review) {
		t.Fatal("author must be able to edit own review")
	}
	if Decide(reviewed, CapEdit, review) {
		t.Fatal("reviewed party must not edit the review")
	}
	if !Decide(reviewed, CapDelete, review) {
		t.Fatal("reviewed party must be able to delete the review")
	}
	if Decide(stranger, CapDelete, review) {
		t.Fatal("stranger must not delete the review")
	}
	if !Decide(admin, CapDelete, review) || !Decide(admin, CapEdit, review) {
		t.Fatal("admin must be able to edit and delete any review")
	}
	if Decide(author, CapView, review) {
		t.Fatal("unsupported capability on review must deny")
	}
}

func TestMessageRules(t *testing.T) {
	sender := newActor(RoleUser)
	recipient := newActor(RoleUser)
	stranger := newActor(RoleUser)
	admin := newActor(RoleAdmin)

	msg := Message{SenderID: sender.ID, RecipientID: recipient.ID}

	for _, a := range []Actor{sender, recipient, admin} {
		if !Decide(a, CapView, msg) {
			t.Fatalf("party %v must view the message", a.Roles)
		}
	}
	if Decide(stranger, CapView, msg) {
		t.Fatal("stranger must not view the message")
	}
	if !Decide(sender, CapDelete, msg) {
		t.Fatal("sender must delete own message")
	}
	if Decide(recipient, CapDelete, msg) {
		t.Fatal("recipient must not delete the message")
	}
	if !Decide(admin, CapDelete, msg) {
		t.Fatal("admin must delete any message")
	}
}

func TestReportRules(t *testing.T) {
	reporter := newActor(RoleUser)
	moderator := newActor(RoleModerator)
	admin := newActor(RoleAdmin)
	stranger := newActor(RoleUser)

	report := Report{ReporterID: reporter.ID}

	incomplete := newActor(RoleUser)
	incomplete.ProfileComplete = false
	if Decide(incomplete, CapCreate, Report{}) {
		t.Fatal("incomplete profile must not create reports")
	}
	if !Decide(reporter, CapCreate, Report{}) {
		t.Fatal("complete profile must create reports")
	}
	adminIncomplete := newActor(RoleAdmin)
	adminIncomplete.ProfileComplete = false
	if !Decide(adminIncomplete, CapCreate, Report{}) {
		t.Fatal("admin creates reports regardless of profile")
	}

	if !Decide(reporter, CapView, report) {
		t.Fatal("reporter must view own report")
	}
	if Decide(stranger, CapView, report) {
		t.Fatal("stranger must not view the report")
	}
	for _, a := range []Actor{moderator, admin} {
		if !Decide(a, CapView, report) || !Decide(a, CapProcess, report) {
			t.Fatalf("staff %v must view and process reports", a.Roles)
		}
	}
	if Decide(reporter, CapProcess, report) {
		t.Fatal("reporter must not process reports")
	}
}

func TestAdminScopeRoles(t *testing.T) {
	user := newActor(RoleUser)
	moderator := newActor(RoleModerator)
	admin := newActor(RoleAdmin)

	cases := []struct {
		cap       Capability
		user, mod bool
	}{
		{CapAdminDashboard, false, true},
		{CapAdminLogs, false, false},
		{CapAdminExport, false, false},
		{CapModerateContent, false, true},
	}
	for _, tc := range cases {
		if got := Decide(user, tc.cap, nil); got != tc.user {
			t.Errorf("%s for user: got %v, want %v", tc.cap, got, tc.user)
		}
		if got := Decide(moderator, tc.cap, nil); got != tc.mod {
			t.Errorf("%s for moderator: got %v, want %v", tc.cap, got, tc.mod)
		}
		if !Decide(admin, tc.cap, nil) {
			t.Errorf("%s for admin: expected allow", tc.cap)
		}
	}
}

func TestBannedActorDeniedAdminScope(t *testing.T) {
	banned := newActor(RoleAdmin, RoleModerator)
	banned.IsBanned = true

	caps := []Capability{
		CapAdminDashboard, CapAdminLogs, CapAdminExport, CapModerateContent,
	}
	for _, cap := range caps {
		if Decide(banned, cap, nil) {
			t.Errorf("banned admin must be denied %s", cap)
		}
	}
	target := UserTarget{ID: uuid.New(), Roles: []Role{RoleUser}}
	for _, cap := range []Capability{CapBanUser, CapDeleteUser, CapEditRoles, CapUnbanUser} {
		if Decide(banned, cap, target) {
			t.Errorf("banned admin must be denied %s", cap)
		}
	}

	// Ban status does not affect the ownership family.
	bannedOwner := newActor(RoleUser)
	bannedOwner.IsBanned = true
	trip := Trip{OwnerID: bannedOwner.ID, Status: "cancelled"}
	if !Decide(bannedOwner, CapEdit, trip) {
		t.Fatal("ownership family must not consult ban status")
	}
}

func TestAdminProtectionInvariants(t *testing.T) {
	admin := newActor(RoleAdmin)
	otherAdmin := UserTarget{ID: uuid.New(), Roles: []Role{RoleAdmin}}
	plainUser := UserTarget{ID: uuid.New(), Roles: []Role{RoleUser}}

	for _, cap := range []Capability{CapBanUser, CapDeleteUser, CapEditRoles} {
		if Decide(admin, cap, otherAdmin) {
			t.Errorf("%s against another admin must deny", cap)
		}
		if Decide(admin, cap, UserTarget{ID: admin.ID, Roles: []Role{RoleAdmin}}) {
			t.Errorf("%s against self must deny", cap)
		}
		if !Decide(admin, cap, plainUser) {
			t.Errorf("%s against plain user must allow", cap)
		}
	}

	// Unban stays outside the protection invariant so a wrongly banned
	// admin is recoverable.
	if !Decide(admin, CapUnbanUser, otherAdmin) {
		t.Fatal("unban of an admin target must allow")
	}

	moderator := newActor(RoleModerator)
	if Decide(moderator, CapBanUser, plainUser) {
		t.Fatal("moderator must not ban users")
	}
}

func TestBareIDFallback(t *testing.T) {
	admin := newActor(RoleAdmin)
	user := newActor(RoleUser)
	id := uuid.New()

	for _, cap := range []Capability{CapView, CapEdit, CapDelete} {
		if Decide(user, cap, id) {
			t.Errorf("%s by bare id must deny non-admin", cap)
		}
		if !Decide(admin, cap, id) {
			t.Errorf("%s by bare id must allow admin", cap)
		}
	}
}

func TestUnknownInputsDeny(t *testing.T) {
	admin := newActor(RoleAdmin)

	if Decide(admin, Capability("frobnicate"), Trip{OwnerID: admin.ID, Status: "active"}) {
		t.Fatal("unknown capability must deny")
	}
	if Decide(admin, CapView, struct{ X int }{1}) {
		t.Fatal("unknown resource type must deny")
	}
	if Decide(admin, CapBanUser, Trip{}) {
		t.Fatal("admin capability with wrong target type must deny")
	}
	if Decide(admin, CapView, nil) {
		t.Fatal("nil resource outside admin scope must deny")
	}
	if Decide(admin, Capability("frobnicate"), uuid.New()) {
		t.Fatal("unknown capability with a bare id must deny")
	}
	for _, cap := range []Capability{CapCreate, CapProcess} {
		if Decide(admin, cap, uuid.New()) {
			t.Fatalf("%s has no bare-id form and must deny", cap)
		}
	}
}
