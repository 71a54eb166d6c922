//nolint:funlen // ok for this test code
package permission

import (
	"testing"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/auth"
)

var (
	admin = auth.NewSimpleAuth("admin", auth.RoleAdmin)
	alice = auth.NewSimpleAuth("alice", auth.RoleUser)
	anon  = auth.Anonymous
)

func TestOpa_HasPermission(t *testing.T) {
	type args struct {
		a    auth.Authentication
		perm Permission
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{"admin create driver", args{admin, PermissionCreateDriver}, true},
		{"admin update driver", args{admin, PermissionUpdateDriver}, true},
		{"admin delete team", args{admin, PermissionDeleteTeam}, true},
		{"admin create race", args{admin, PermissionCreateRace}, true},
		{"admin delete race", args{admin, PermissionDeleteRace}, true},
		{"user create driver", args{alice, PermissionCreateDriver}, false},
		{"user create race", args{alice, PermissionCreateRace}, false},
		{"user delete race", args{alice, PermissionDeleteRace}, false},
		{"user roster without owner", args{alice, PermissionManageRoster}, false},
		{"anon create race", args{anon, PermissionCreateRace}, false},
	}
	opaPE, err := NewOpaPermissionEvaluator()
	if err != nil {
		t.Errorf("NewOpaPermissionEvaluator() error = %v", err)
		return
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := opaPE.HasPermission(tt.args.a, tt.args.perm); got != tt.want {
				t.Errorf("opaPE.HasPermission() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpa_HasObjectPermission(t *testing.T) {
	type args struct {
		a     auth.Authentication
		perm  Permission
		owner string
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{"owner reads roster", args{alice, PermissionReadRoster, "alice"}, true},
		{"owner manages roster", args{alice, PermissionManageRoster, "alice"}, true},
		{"other user reads roster", args{alice, PermissionReadRoster, "bob"}, false},
		{"other user manages roster", args{alice, PermissionManageRoster, "bob"}, false},
		{"admin manages any roster", args{admin, PermissionManageRoster, "bob"}, true},
		{"anon reads roster", args{anon, PermissionReadRoster, "anon"}, false},
		{"user object perm on admin action", args{alice, PermissionDeleteRace, "alice"}, false},
	}
	opaPE, err := NewOpaPermissionEvaluator()
	if err != nil {
		t.Errorf("NewOpaPermissionEvaluator() error = %v", err)
		return
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := opaPE.HasObjectPermission(tt.args.a, tt.args.perm, tt.args.owner)
			if got != tt.want {
				t.Errorf("opaPE.HasObjectPermission() = %v, want %v", got, tt.want)
			}
		})
	}
}
