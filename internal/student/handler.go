package student

import (
	"context"
	"net/http"
	"strconv"

	"github.com/zoobzio/veil"
	"github.com/zoobzio/veil/router"
)

// Handler adapts the service to boundary calls.
type Handler struct {
	svc *Service
}

// NewHandler creates a handler for svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register adds the students routes to srv.
func (h *Handler) Register(srv *router.Server) error {
	srv.MapError(ErrNotFound, http.StatusNotFound)
	srv.MapError(ErrInvalid, http.StatusUnprocessableEntity)

	routes := []router.Route{
		{
			Method:  http.MethodGet,
			Pattern: "/students",
			Name:    "listStudents",
			Handler: h.list,
		},
		{
			Method:  http.MethodGet,
			Pattern: "/students/{id}",
			Name:    "getStudent",
			Args:    []router.Binder{router.Path("id", veil.Student)},
			Handler: h.get,
		},
		{
			Method:  http.MethodPost,
			Pattern: "/students",
			Name:    "createStudent",
			Args:    []router.Binder{router.Body[CreateStudent]()},
			Handler: h.create,
			Status:  http.StatusCreated,
		},
	}
	for _, rt := range routes {
		if err := srv.Handle(rt); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) list(ctx context.Context, _ []any) (any, error) {
	entities, err := h.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &List{Students: make([]DTO, 0, len(entities))}
	for _, e := range entities {
		out.Students = append(out.Students, FromEntity(e))
	}
	return out, nil
}

func (h *Handler) get(ctx context.Context, args []any) (any, error) {
	// A raw number sent as the id is encoded by the boundary and never
	// parses here.
	id, err := strconv.ParseInt(args[0].(string), 10, 64)
	if err != nil {
		return nil, ErrNotFound
	}
	e, err := h.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromEntity(e)
	return &dto, nil
}

func (h *Handler) create(ctx context.Context, args []any) (any, error) {
	req := args[0].(*CreateStudent)
	in, err := req.Entity()
	if err != nil {
		return nil, err
	}
	e, err := h.svc.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	dto := FromEntity(e)
	return &dto, nil
}
