package sei

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// Login authenticates the session and loads the Controle de Processos page.
// The portal answers 200 on failed logins, so success is decided by content
// markers only. Credential rejection and lockout come back as
// *AuthenticationError, network trouble as *TransportError.
func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	if username == "" || password == "" {
		return &AuthenticationError{Reason: "username and password must be provided"}
	}

	// warms up the session cookies before posting credentials
	_, err := c.get(ctx, "login page", c.loginPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login page")
		return err
	}

	html, err := c.postForm(ctx, "login", c.loginPath, map[string]string{
		"txtUsuario": username,
		"pwdSenha":   password,
		"selOrgao":   c.Orgao,
		"hdnAcao":    "2",
		"Acessar":    "Acessar",
	}, "")
	if err != nil {
		span.SetStatus(codes.Error, "failed to post login form")
		return err
	}

	ok := strings.Contains(html, "Sair") || strings.Contains(html, "Controle de Processos")
	if !ok {
		lowered := strings.ToLower(html)
		var reason string
		switch {
		case strings.Contains(lowered, "usuário ou senha") || strings.Contains(lowered, "inval"):
			reason = "invalid username or password"
		case strings.Contains(lowered, "bloquead") || strings.Contains(lowered, "bloqueio"):
			reason = "account is locked"
		default:
			reason = "login not confirmed by the portal"
		}
		span.SetStatus(codes.Error, reason)
		return &AuthenticationError{Reason: reason}
	}

	return c.openControl(ctx, html)
}

// openControl navigates to the Controle de Processos screen, caching its
// markup and URL on the session and re-reading the active unit.
func (c *Client) openControl(ctx context.Context, fromHtml string) error {
	link := c.findControlUrl(fromHtml)
	if link == "" {
		link = c.absoluteUrl("controlador.php?acao=procedimento_controlar")
	}

	html, err := c.get(ctx, "control page", link)
	if err != nil {
		return err
	}

	c.controlUrl = link
	c.controlHtml = html
	c.readActiveUnit(html)
	return nil
}

func (c *Client) findControlUrl(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	href := doc.Find(`a[href*="acao=procedimento_controlar"]`).First().AttrOr("href", "")
	if href == "" {
		return ""
	}
	return c.absoluteUrl(href)
}
