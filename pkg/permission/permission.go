package permission

import (
	"github.com/mpapenbr/fantasyf1-service-go/log"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/auth"
)

type Permission string

// roster permissions are checked against the owner of the roster
const (
	PermissionReadRoster   Permission = "read-roster"
	PermissionManageRoster Permission = "manage-roster"
)

const (
	PermissionCreateDriver Permission = "create-driver"
	PermissionUpdateDriver Permission = "update-driver"
	PermissionDeleteDriver Permission = "delete-driver"
	PermissionCreateTeam   Permission = "create-team"
	PermissionDeleteTeam   Permission = "delete-team"
	PermissionCreateRace   Permission = "create-race"
	PermissionDeleteRace   Permission = "delete-race"
)

type PermissionEvaluator interface {
	HasPermission(a auth.Authentication, perm Permission) bool
	HasObjectPermission(a auth.Authentication, perm Permission, objectOwner string) bool
}

func NewPermissionEvaluator() PermissionEvaluator {
	if ret, err := NewOpaPermissionEvaluator(); err != nil {
		log.Default().Error("failed to create permission evaluator", log.ErrorField(err))
		return nil
	} else {
		return ret
	}
}
