package handlers

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/ghostwriter/configs"
	"github.com/maheshrc27/ghostwriter/internal/service"
	"github.com/maheshrc27/ghostwriter/internal/transfer"
)

type PlatformHandler struct {
	wp    service.WordPressService
	th    service.ThreadsService
	fb    service.FacebookService
	oauth service.OAuthService
	cfg   config.Config
}

func NewPlatformHandler(wp service.WordPressService, th service.ThreadsService, fb service.FacebookService, oauth service.OAuthService, cfg config.Config) *PlatformHandler {
	return &PlatformHandler{
		wp:    wp,
		th:    th,
		fb:    fb,
		oauth: oauth,
		cfg:   cfg,
	}
}

func (h *PlatformHandler) AddSocialAccount(c *fiber.Ctx) error {
	authURL, err := h.oauth.GetAuthURL(c.Context(), c.Params("platform"))
	if err != nil {
		return sendError(c, err)
	}
	return c.Redirect(authURL)
}

// CallbackHandler finishes the OAuth dance and hands the user token to the
// frontend, which keeps it client side.
func (h *PlatformHandler) CallbackHandler(c *fiber.Ctx) error {
	platform := c.Params("platform")
	params := url.Values{}
	params.Set("platform", platform)

	if denied := c.Query("error"); denied != "" {
		params.Set("error", denied)
		return c.Redirect(h.connectURL(params), fiber.StatusTemporaryRedirect)
	}

	token, err := h.oauth.Exchange(c.Context(), platform, c.Query("code"), c.Query("state"))
	if err != nil {
		slog.Info(err.Error())
		params.Set("error", errorMessage(err))
		return c.Redirect(h.connectURL(params), fiber.StatusTemporaryRedirect)
	}

	// The token goes in the fragment, never the query.
	fragment := url.Values{"access_token": {token.AccessToken}}
	return c.Redirect(h.connectURL(params)+"#"+fragment.Encode(), fiber.StatusTemporaryRedirect)
}

func (h *PlatformHandler) connectURL(params url.Values) string {
	return fmt.Sprintf("%s/connect?%s", h.cfg.FrontendURL, params.Encode())
}

func (h *PlatformHandler) CheckThreads(c *fiber.Ctx) error {
	res := h.th.CheckConnection(c.Context(), GetAccessToken(c))
	return c.Status(platformStatus(res)).JSON(res)
}

func (h *PlatformHandler) CheckFacebook(c *fiber.Ctx) error {
	res := h.fb.CheckConnection(c.Context(), GetAccessToken(c))
	return c.Status(platformStatus(res)).JSON(res)
}

func (h *PlatformHandler) FacebookPages(c *fiber.Ctx) error {
	res := h.fb.ListPages(c.Context(), GetAccessToken(c))
	return c.Status(platformStatus(res)).JSON(res)
}

// DeleteFacebookPost removes a published post from Facebook using the
// caller's token.
func (h *PlatformHandler) DeleteFacebookPost(c *fiber.Ctx) error {
	res := h.fb.DeletePost(c.Context(), GetAccessToken(c), c.Params("post_id"))
	return c.Status(platformStatus(res)).JSON(res)
}

func (h *PlatformHandler) VerifyWordPress(c *fiber.Ctx) error {
	var req transfer.WordPressCredentials
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	creds, ok := h.wp.Credentials(req)
	if !ok {
		return sendError(c, fmt.Errorf("%w: %s", service.ErrNotConfigured, service.WordPressNotConfigured))
	}

	res := h.wp.CheckConnection(c.Context(), creds)
	return c.Status(platformStatus(res)).JSON(res)
}

func (h *PlatformHandler) VerifyFacebook(c *fiber.Ctx) error {
	var req transfer.VerifyTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if req.AccessToken == "" {
		req.AccessToken = GetAccessToken(c)
	}

	res := h.fb.CheckConnection(c.Context(), req.AccessToken)
	return c.Status(platformStatus(res)).JSON(res)
}

func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}
