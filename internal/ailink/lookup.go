package ailink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hide0128/finder/internal/ailink/driver"
	"github.com/hide0128/finder/internal/ailink/prompt"
	"github.com/hide0128/finder/internal/core"
)

const defaultLookupTimeout = 60 * time.Second

// Service looks up company information through a configured provider. It
// satisfies engine.Lookuper.
type Service struct {
	Providers       *Registry
	Prompts         prompt.Registry
	PromptSlug      string
	Model           string
	UnknownSentinel string
}

// NewService builds the prompt registry from cfg and returns a ready service.
func NewService(cfg Config, model, sentinel string) (*Service, error) {
	prompts, err := prompt.BuildRegistry(cfg.PromptsDir)
	if err != nil {
		return nil, err
	}
	return &Service{
		Providers:       NewRegistry(cfg),
		Prompts:         prompts,
		PromptSlug:      cfg.PromptSlug,
		Model:           model,
		UnknownSentinel: sentinel,
	}, nil
}

// Lookup asks the provider for name's domain and postal code. Failures are
// returned as *LookupError carrying the message to show the user.
func (s *Service) Lookup(ctx context.Context, name string) (*core.CompanyInfo, error) {
	info, err := s.lookup(ctx, name)
	if err != nil {
		return nil, mapLookupError(name, err)
	}
	return info, nil
}

// CheckHealth reports whether a provider, credential and model can be
// resolved for the lookup prompt. It makes no network call.
func (s *Service) CheckHealth(ctx context.Context) error {
	_, _, err := s.resolve()
	return err
}

func (s *Service) resolve() (*prompt.Prompt, *ResolvedProvider, error) {
	if s == nil || s.Prompts == nil {
		return nil, nil, fmt.Errorf("lookup service not configured")
	}

	slug := strings.TrimSpace(s.PromptSlug)
	if slug == "" {
		slug = prompt.DefaultSlug
	}
	promptDef, err := s.Prompts.Get(slug)
	if err != nil {
		return nil, nil, err
	}

	resolved, err := s.Providers.Resolve(promptDef, s.Model)
	if err != nil {
		return nil, nil, err
	}
	return promptDef, resolved, nil
}

func (s *Service) lookup(ctx context.Context, name string) (*core.CompanyInfo, error) {
	promptDef, resolved, err := s.resolve()
	if err != nil {
		return nil, err
	}

	req := s.buildRequest(promptDef, resolved, name)

	timeout := s.Providers.Config().DefaultTimeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := resolved.Driver.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.parseCompanyInfo(name, resp, promptDef.Config.ResponseSchema)
}

func (s *Service) buildRequest(promptDef *prompt.Prompt, resolved *ResolvedProvider, name string) *driver.Request {
	vars := map[string]string{
		"name":    name,
		"unknown": s.sentinel(),
	}

	cfg := promptDef.Config
	messages := make([]driver.Message, 0, 2)
	if system := renderTemplate(cfg.SystemTemplate, vars); system != "" {
		messages = append(messages, driver.Message{Role: "system", Text: system})
	}
	user := renderTemplate(cfg.UserTemplate, vars)
	if user == "" {
		user = name
	}
	messages = append(messages, driver.Message{Role: "user", Text: user})

	caps := resolved.Driver.Capabilities()
	req := &driver.Request{
		Model:          resolved.Model,
		Messages:       messages,
		WebSearch:      cfg.WebSearch && caps.SupportsSearch && !resolved.Provider.DisableSearch,
		Temperature:    cfg.Generation.Temperature,
		TopP:           cfg.Generation.TopP,
		ThinkingBudget: cfg.Generation.ThinkingBudget,
		PromptSlug:     cfg.Slug,
	}
	if caps.SupportsJSON {
		req.ResponseFormat = &driver.ResponseFormat{Type: "json_object"}
	}
	return req
}

func (s *Service) sentinel() string {
	if s.UnknownSentinel != "" {
		return s.UnknownSentinel
	}
	return core.DefaultUnknownSentinel
}

func (s *Service) providerConfig() Config {
	if s == nil {
		return Config{}
	}
	return s.Providers.Config()
}

func renderTemplate(tmpl string, vars map[string]string) string {
	out := tmpl
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return strings.TrimSpace(out)
}
