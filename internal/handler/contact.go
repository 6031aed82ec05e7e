package handler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Olatundeadedeji/streamcati/internal/importer"
	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"github.com/Olatundeadedeji/streamcati/pkg/response"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListContacts(c *gin.Context) {
	var q model.ListContactsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	list, err := h.directory(c).Filtered(c.Request.Context(), q.Query, q.Status)
	if err != nil {
		h.fail(c, "list contacts", err)
		return
	}
	response.OKWithMeta(c, list, &response.Meta{Total: len(list)})
}

func (h *Handler) GetContact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contact, err := h.directory(c).Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "get contact", err)
		return
	}
	response.OK(c, contact)
}

func (h *Handler) CreateContact(c *gin.Context) {
	var req model.CreateContactReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	contact, err := h.directory(c).Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "create contact", err)
		return
	}
	response.Created(c, contact)
}

func (h *Handler) PatchContact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req model.PatchContactReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	contact, err := h.directory(c).Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, "patch contact", err)
		return
	}
	response.OK(c, contact)
}

func (h *Handler) DeleteContact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.directory(c).Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "delete contact", err)
		return
	}
	response.NoContent(c)
}

type importSummary struct {
	Contacts   int            `json:"contacts"`
	Interviews int            `json:"interviews"`
	Responses  int            `json:"responses"`
	Rejected   map[int]string `json:"rejected,omitempty"`
}

// ImportContacts loads an uploaded .xlsx or .json export. With dry_run=true
// the export is only normalized and summarized.
func (h *Handler) ImportContacts(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing upload field \"file\"")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	defer f.Close()

	var records []importer.Record
	switch ext := strings.ToLower(filepath.Ext(fh.Filename)); ext {
	case ".xlsx":
		records, err = importer.ReadXLSX(f)
	case ".json":
		records, err = importer.ReadJSON(f)
	default:
		response.BadRequest(c, fmt.Sprintf("unsupported file type %q", ext))
		return
	}
	if err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	batch := h.Normalizer.Normalize(records)
	h.Logger.Sugar().Infow("import normalized", "file", fh.Filename, "records", len(records),
		"contacts", len(batch.Contacts), "interviews", len(batch.Interviews), "rejected", len(batch.Rejected))

	if c.Query("dry_run") == "true" {
		response.OK(c, importSummary{
			Contacts:   len(batch.Contacts),
			Interviews: len(batch.Interviews),
			Responses:  len(batch.Responses),
			Rejected:   batch.Rejected,
		})
		return
	}

	rep, err := importer.NewRunner(h.directory(c), h.backend(c), h.Logger).Run(c.Request.Context(), batch)
	if err != nil {
		h.fail(c, "import", err)
		return
	}
	response.OK(c, rep)
}
