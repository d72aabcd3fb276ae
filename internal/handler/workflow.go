package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/adsaga-console/internal/model"
)

type workflowReq struct {
	Domains      []string `json:"domains" form:"domains"`
	Locations    []string `json:"locations" form:"locations"`
	Designations []string `json:"designations" form:"designations"`
	RunsAt       string   `json:"runs_at" form:"runs_at"`
	LeadsCount   int      `json:"leads_count" form:"leads_count"`
}

func (r workflowReq) input() model.WorkflowConfigInput {
	return model.WorkflowConfigInput{
		Domains:      r.Domains,
		Locations:    r.Locations,
		Designations: r.Designations,
		RunsAt:       r.RunsAt,
		LeadsCount:   r.LeadsCount,
	}.Normalize()
}

// WorkflowPage lists the signed-in user's workflow configurations.
func (h *Handler) WorkflowPage(c echo.Context) error {
	cfgs, err := h.Workflows.ListMine(c.Request().Context())
	if cfgs == nil {
		cfgs = []model.WorkflowConfig{}
	}
	return h.render(c, "Workflow configuration", echo.Map{"configs": cfgs}, err)
}

// OrganisationWorkflows lists the configurations of the user's organisation.
func (h *Handler) OrganisationWorkflows(c echo.Context) error {
	cfgs, err := h.Workflows.ListByOrganisation(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	if cfgs == nil {
		cfgs = []model.WorkflowConfig{}
	}
	return c.JSON(http.StatusOK, echo.Map{"configs": cfgs})
}

func (h *Handler) CreateWorkflow(c echo.Context) error {
	var req workflowReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	if _, err := h.Workflows.Create(c.Request().Context(), req.input()); err != nil {
		return h.fail(c, err)
	}
	return h.refetchWorkflows(c, http.StatusCreated, "Workflow configuration created successfully")
}

func (h *Handler) UpdateWorkflow(c echo.Context) error {
	var req workflowReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	if _, err := h.Workflows.Update(c.Request().Context(), model.ID(c.Param("id")), req.input()); err != nil {
		return h.fail(c, err)
	}
	return h.refetchWorkflows(c, http.StatusOK, "Workflow configuration updated successfully")
}

func (h *Handler) DeleteWorkflow(c echo.Context) error {
	if err := h.Workflows.Delete(c.Request().Context(), model.ID(c.Param("id"))); err != nil {
		return h.fail(c, err)
	}
	return h.refetchWorkflows(c, http.StatusOK, "Workflow configuration deleted successfully")
}

func (h *Handler) refetchWorkflows(c echo.Context, status int, msg string) error {
	cfgs, err := h.Workflows.ListMine(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	if cfgs == nil {
		cfgs = []model.WorkflowConfig{}
	}
	return c.JSON(status, echo.Map{"message": msg, "configs": cfgs})
}

// AllWorkflows lists every configuration the backend holds, across users.
func (h *Handler) AllWorkflows(c echo.Context) error {
	cfgs, err := h.Workflows.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	if cfgs == nil {
		cfgs = []model.WorkflowConfig{}
	}
	return c.JSON(http.StatusOK, echo.Map{"configs": cfgs})
}

func (h *Handler) WorkflowDetail(c echo.Context) error {
	cfg, err := h.Workflows.Get(c.Request().Context(), model.ID(c.Param("id")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"config": cfg})
}

type tagEditReq struct {
	Tags   []string `json:"tags"`
	Add    string   `json:"add"`
	Remove *int     `json:"remove"`
}

// EditTags applies one edit of the tag input: remove the tag at an index,
// or add a trimmed item.  Nothing is sent to the backend; the form posts
// the resulting list with the configuration.
func (h *Handler) EditTags(c echo.Context) error {
	var req tagEditReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	if req.Remove != nil {
		return c.JSON(http.StatusOK, echo.Map{"tags": model.RemoveTag(tags, *req.Remove)})
	}
	tags, ok := model.AddTag(tags, req.Add)
	return c.JSON(http.StatusOK, echo.Map{"tags": tags, "added": ok})
}
