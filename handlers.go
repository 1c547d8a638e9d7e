package partyhub

import (
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/partyhub/partyhub/views"
)

const (
	defaultPreviewWidth  = 432
	defaultPreviewHeight = 540
)

// generatePostRequest is the wire shape of POST /api/generate-post.
// base64Image carries the encoded body only, no data-URI prefix.
type generatePostRequest struct {
	PostText    string `json:"postText"`
	BrandTone   string `json:"brandTone"`
	BrandColor  string `json:"brandColor"`
	Base64Image string `json:"base64Image"`
	MimeType    string `json:"mimeType"`
}

// handleGeneratePost is the stateless generation endpoint: everything
// arrives in one JSON body and nothing touches session state.
func (a *App) handleGeneratePost(c echo.Context) error {
	if !a.generateLimiter.Allow(c.RealIP()) {
		return jsonError(c, http.StatusTooManyRequests, "Too many generation attempts. Try again later.")
	}

	var req generatePostRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body.")
	}
	if req.PostText == "" || req.BrandTone == "" || req.BrandColor == "" || req.Base64Image == "" || req.MimeType == "" {
		return jsonError(c, http.StatusBadRequest, "Missing required fields.")
	}

	image, err := base64.StdEncoding.DecodeString(req.Base64Image)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "base64Image is not valid base64.")
	}

	content, err := a.generator.Generate(c.Request().Context(), GenerateRequest{
		PostText:   req.PostText,
		BrandTone:  req.BrandTone,
		BrandColor: req.BrandColor,
		Image:      image,
		MimeType:   req.MimeType,
	})
	if err != nil {
		return a.generationError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"generatedPost": content})
}

func (a *App) handlePlaygroundState(c echo.Context) error {
	pg, _, err := a.playground(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshotJSON(pg.Snapshot()))
}

func (a *App) handleAssetUpload(c echo.Context) error {
	pg, _, err := a.playground(c)
	if err != nil {
		return err
	}
	slot := AssetSlot(c.Param("slot"))
	if !ValidSlot(slot) {
		return jsonError(c, http.StatusBadRequest, "Unknown asset slot.")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "No file provided.")
	}
	if file.Size > maxUploadSize {
		return jsonError(c, http.StatusBadRequest, "File too large (max 10MB).")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	ref, err := NormalizeAsset(src, file.Filename)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	pos := pg.SetAsset(slot, ref)
	return c.JSON(http.StatusOK, echo.Map{
		"preview":      ref.Preview,
		"width":        ref.Width,
		"height":       ref.Height,
		"logoPosition": pos,
		"state":        pg.State(),
	})
}

func (a *App) handleAssetDelete(c echo.Context) error {
	pg, _, err := a.playground(c)
	if err != nil {
		return err
	}
	slot := AssetSlot(c.Param("slot"))
	if !ValidSlot(slot) {
		return jsonError(c, http.StatusBadRequest, "Unknown asset slot.")
	}
	pg.ClearAsset(slot)
	return c.JSON(http.StatusOK, echo.Map{"state": pg.State()})
}

func (a *App) handleMessage(c echo.Context) error {
	pg, _, err := a.playground(c)
	if err != nil {
		return err
	}
	var req struct {
		PostText string `json:"postText"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body.")
	}
	if err := pg.SetMessage(req.PostText); err != nil {
		return a.generationError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"state": pg.State()})
}

func (a *App) handleBrand(c echo.Context) error {
	pg, _, err := a.playground(c)
	if err != nil {
		return err
	}
	var req struct {
		BrandTone  string `json:"brandTone"`
		BrandColor string `json:"brandColor"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body.")
	}
	pg.SetBrand(req.BrandTone, req.BrandColor)
	return c.JSON(http.StatusOK, echo.Map{"state": pg.State()})
}

func (a *App) handleTemplate(c echo.Context) error {
	pg, _, err := a.playground(c)
	if err != nil {
		return err
	}
	var req struct {
		Template string `json:"template"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body.")
	}
	tpl, ok := ParseTemplate(req.Template)
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Unknown layout template.")
	}
	pg.SetTemplate(tpl)
	return c.JSON(http.StatusOK, echo.Map{"template": tpl, "state": pg.State()})
}

func (a *App) handlePosition(c echo.Context) error {
	pg, _, err := a.playground(c)
	if err != nil {
		return err
	}
	el := Element(c.Param("element"))
	var req struct {
		Dx     float64 `json:"dx"`
		Dy     float64 `json:"dy"`
		Width  int     `json:"width"`
		Height int     `json:"height"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body.")
	}
	pos, err := pg.MovePosition(el, req.Dx, req.Dy, CanvasGeometry{Width: req.Width, Height: req.Height})
	if err != nil {
		return a.generationError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"position": pos})
}

// handleGenerate runs a generation from the playground's stored inputs.
func (a *App) handleGenerate(c echo.Context) error {
	pg, _, err := a.playground(c)
	if err != nil {
		return err
	}
	if !a.generateLimiter.Allow(c.RealIP()) {
		return jsonError(c, http.StatusTooManyRequests, "Too many generation attempts. Try again later.")
	}
	content, err := pg.Generate(c.Request().Context(), a.generator)
	if err != nil {
		return a.generationError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"generatedPost": content, "state": pg.State()})
}

// handlePreview rasterizes the current playground at an arbitrary
// preview geometry. The export path never goes through here.
func (a *App) handlePreview(c echo.Context) error {
	pg, _, err := a.playground(c)
	if err != nil {
		return err
	}
	geom := CanvasGeometry{
		Width:  clampInt(intQuery(c, "w", defaultPreviewWidth), 64, a.Config.ExportWidth),
		Height: clampInt(intQuery(c, "h", defaultPreviewHeight), 64, a.Config.ExportHeight),
	}
	img, err := a.rasterizer.Render(pg.Snapshot().Resolve(geom))
	if err != nil {
		c.Logger().Errorf("preview render: %v", err)
		return jsonError(c, http.StatusInternalServerError, userMessage(err))
	}
	return writePNG(c, img)
}

// handleExport renders the fixed-resolution download artifact and
// records the creation in the gallery.
func (a *App) handleExport(c echo.Context) error {
	pg, id, err := a.playground(c)
	if err != nil {
		return err
	}
	snap := pg.Snapshot()
	if snap.Content.Empty() {
		return jsonError(c, http.StatusBadRequest, "Generate a post before downloading.")
	}

	result, err := a.exporter.Export(id, snap, func(ExportResult) {
		if _, err := a.Store.SaveCreation(Creation{
			Headline:   snap.Content.Headline,
			Body:       snap.Content.Body,
			Hashtags:   snap.Content.Hashtags,
			BrandColor: snap.BrandColor,
			BrandTone:  snap.BrandTone,
			Template:   snap.Template,
		}); err != nil {
			// The download still succeeds; the gallery entry is best-effort.
			c.Logger().Errorf("save creation: %v", err)
			return
		}
		a.Gallery.Invalidate()
	})
	if err != nil {
		c.Logger().Errorf("export render: %v", err)
		return jsonError(c, http.StatusInternalServerError, userMessage(err))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+result.Filename+`"`)
	return c.Blob(http.StatusOK, "image/png", result.PNG)
}

func (a *App) handleCreationList(c echo.Context) error {
	creations, err := a.Gallery.List()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"creations": creations})
}

func (a *App) handleCreationDelete(c echo.Context) error {
	if err := a.Store.DeleteCreation(c.Param("id")); err != nil {
		return err
	}
	a.Gallery.Invalidate()
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleHome(c echo.Context) error {
	return Render(c, a.Views.Playground(a.pageData()))
}

func (a *App) handleGallery(c echo.Context) error {
	creations, err := a.Gallery.List()
	if err != nil {
		return err
	}
	data := views.GalleryData{Site: a.siteData(), Creations: make([]views.Creation, 0, len(creations))}
	for _, cr := range creations {
		data.Creations = append(data.Creations, views.Creation{
			ID:         cr.ID,
			Headline:   cr.Headline,
			Body:       cr.Body,
			Hashtags:   cr.Hashtags,
			BrandColor: cr.BrandColor,
			CreatedAt:  cr.CreatedAt,
		})
	}
	return Render(c, a.Views.Gallery(data))
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) pageData() views.PageData {
	templates := make([]views.TemplateOption, 0, len(Templates))
	for _, t := range Templates {
		templates = append(templates, views.TemplateOption{ID: string(t), Name: templateName(t)})
	}
	return views.PageData{
		Site:            a.siteData(),
		BrandTones:      BrandTones,
		Templates:       templates,
		MaxMessageChars: MaxMessageChars,
	}
}

func (a *App) siteData() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}

func templateName(t LayoutTemplate) string {
	switch t {
	case TemplateStandard:
		return "Standard"
	case TemplateSplit:
		return "Split"
	case TemplateOverlay:
		return "Overlay"
	case TemplateFooterFocus:
		return "Footer"
	}
	return string(t)
}

// generationError maps a typed error onto its HTTP status and the
// single user-facing message. MalformedResponse keeps its raw reply in
// the server log only.
func (a *App) generationError(c echo.Context, err error) error {
	var vErr *ValidationError
	var mErr *MalformedResponseError
	var tErr *TransportError
	switch {
	case errors.As(err, &vErr):
		return jsonError(c, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, ErrBusy):
		return jsonError(c, http.StatusConflict, userMessage(err))
	case errors.As(err, &mErr):
		c.Logger().Errorf("model reply unusable: %v; raw: %s", mErr.Err, snippet(mErr.Raw, 500))
		return jsonError(c, http.StatusBadGateway, userMessage(err))
	case errors.As(err, &tErr):
		c.Logger().Errorf("generation transport: %v", tErr.Err)
		return jsonError(c, http.StatusBadGateway, userMessage(err))
	}
	return err
}

func snapshotJSON(s Snapshot) echo.Map {
	m := echo.Map{
		"state":      s.State,
		"postText":   s.Message,
		"brandTone":  s.BrandTone,
		"brandColor": s.BrandColor,
		"template":   s.Template,
		"positions":  s.Positions,
		"hasImage":   s.Image != nil,
		"hasLogo":    s.Logo != nil,
	}
	if !s.Content.Empty() {
		m["generatedPost"] = s.Content
	}
	if s.LastError != "" {
		m["error"] = s.LastError
	}
	return m
}

func writePNG(c echo.Context, img image.Image) error {
	c.Response().Header().Set(echo.HeaderContentType, "image/png")
	c.Response().WriteHeader(http.StatusOK)
	return png.Encode(c.Response(), img)
}

func jsonError(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"error": msg})
}

func intQuery(c echo.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return fallback
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
