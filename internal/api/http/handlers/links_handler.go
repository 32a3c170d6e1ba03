package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/page-delivery-service/internal/api/dto"
	"github.com/spec-kit/page-delivery-service/internal/auth"
	"github.com/spec-kit/page-delivery-service/internal/service"
	"github.com/spec-kit/page-delivery-service/internal/signing"
	apperrors "github.com/spec-kit/page-delivery-service/pkg/util/errorutil"
)

// LinksHandler exposes the signed render-link issuing endpoint.
type LinksHandler struct {
	links *service.LinkService
}

// NewLinksHandler constructs handler.
func NewLinksHandler(links *service.LinkService) *LinksHandler {
	return &LinksHandler{links: links}
}

// Issue handles POST /collections/:collectionID/pages/:pageID/link.
func (h *LinksHandler) Issue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.LinkRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}

	grant, err := h.links.IssueLink(
		c.Context(),
		principal.Account,
		c.Params("collectionID"),
		c.Params("pageID"),
		signing.Tier(req.Tier),
	)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.LinkResponse{
			URL:         grant.URL,
			Tier:        string(grant.Tier),
			ExpiresInMs: grant.ExpiresIn.Milliseconds(),
		},
	})
}
