package permission

import (
	"bytes"
	"context"
	_ "embed"

	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/open-policy-agent/opa/v1/storage/inmem"

	"github.com/mpapenbr/fantasyf1-service-go/log"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/auth"
)

type OpaPermissionEvaluator struct {
	query rego.PreparedEvalQuery
	l     *log.Logger
}

type EvalRequest struct {
	Roles       []auth.Role `json:"roles"`
	Principal   string      `json:"principal"`
	Action      Permission  `json:"action"`
	ObjectOwner string      `json:"objectOwner,omitempty"`
}

var _ PermissionEvaluator = (*OpaPermissionEvaluator)(nil)

//go:embed policy.rego
var policy []byte

//go:embed data.json
var data []byte

func NewOpaPermissionEvaluator() (*OpaPermissionEvaluator, error) {
	l := log.Default().Named("permission").Named("opa")
	store := inmem.NewFromReader(bytes.NewReader(data))
	r := rego.New(
		rego.Query("data.ff1.authz.allow"),
		rego.Module("ff1.authz", string(policy)),
		rego.Store(store),
	)
	query, err := r.PrepareForEval(context.Background())
	if err != nil {
		l.Error("failed to prepare query", log.ErrorField(err))
		return nil, err
	}
	return &OpaPermissionEvaluator{query: query, l: l}, nil
}

//nolint:whitespace // editor/linter issue
func (ope *OpaPermissionEvaluator) HasPermission(
	a auth.Authentication,
	perm Permission,
) bool {
	return ope.eval(EvalRequest{
		Roles:     a.Roles(),
		Principal: a.Principal().Name(),
		Action:    perm,
	})
}

// HasObjectPermission checks perm for an object owned by objectOwner.
// Admins are always allowed.
//
//nolint:whitespace // editor/linter issue
func (ope *OpaPermissionEvaluator) HasObjectPermission(
	a auth.Authentication,
	perm Permission,
	objectOwner string,
) bool {
	return ope.eval(EvalRequest{
		Roles:       a.Roles(),
		Principal:   a.Principal().Name(),
		Action:      perm,
		ObjectOwner: objectOwner,
	})
}

func (ope *OpaPermissionEvaluator) eval(req EvalRequest) bool {
	if req.Roles == nil {
		req.Roles = []auth.Role{}
	}
	rs, err := ope.query.Eval(context.Background(), rego.EvalInput(req))
	if err != nil {
		ope.l.Error("eval", log.ErrorField(err))
		return false
	}
	ope.l.Debug("eval",
		log.String("principal", req.Principal),
		log.Any("roles", req.Roles),
		log.String("perm", string(req.Action)),
		log.String("objectOwner", req.ObjectOwner),
		log.Bool("allowed", rs.Allowed()))
	return rs.Allowed()
}
