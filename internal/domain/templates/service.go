package templates

import (
	"context"
	"fmt"

	"docengine/internal/core/apperror"
	"docengine/internal/core/id"
	"docengine/internal/core/tenant"
	"docengine/internal/core/tx"
	"docengine/internal/domain/doctype"
	"docengine/pkg/logger"
)

// maxCopySuffix bounds the "(Copy N)" search of Duplicate.
const maxCopySuffix = 100

// Service implements template operations and the single-default rule.
type Service struct {
	repo      Repository
	binder    DocumentBinder
	txManager tx.Manager
	rules     RuleCompiler
}

// RuleCompiler checks schema rule expressions before they are stored.
type RuleCompiler interface {
	Compile(expr string) error
}

// NewService creates a new template service.
func NewService(repo Repository, binder DocumentBinder, txManager tx.Manager) *Service {
	return &Service{repo: repo, binder: binder, txManager: txManager}
}

// WithRules enables compile checks of waybill schema rules.
func (s *Service) WithRules(rules RuleCompiler) *Service {
	s.rules = rules
	return s
}

func (s *Service) validate(ctx context.Context, t *Template) error {
	if err := t.Validate(ctx); err != nil {
		return err
	}
	if s.rules == nil {
		return nil
	}
	for sectionKey, section := range t.CustomFields {
		for fieldKey, f := range section.Fields {
			if f.Rule == "" {
				continue
			}
			if err := s.rules.Compile(f.Rule); err != nil {
				return apperror.NewFieldError("customFields", sectionKey+"."+fieldKey+": "+err.Error())
			}
		}
	}
	for _, c := range t.TableColumns {
		if c.Rule == "" {
			continue
		}
		if err := s.rules.Compile(c.Rule); err != nil {
			return apperror.NewFieldError("tableColumns", c.Name+": "+err.Error())
		}
	}
	return nil
}

// Create persists t for the operator in ctx. When t is the default, other
// defaults of the same type are cleared in the same transaction.
func (s *Service) Create(ctx context.Context, t *Template) error {
	owner, err := tenant.RequireOwner(ctx)
	if err != nil {
		return err
	}
	t.OwnerID = owner
	if err := s.validate(ctx, t); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if t.IsDefault {
			if err := s.repo.ClearDefaults(ctx, t.DocType, t.ID); err != nil {
				return err
			}
		}
		return s.repo.Create(ctx, t)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "template created",
		"template_id", t.ID,
		"doc_type", t.DocType,
		"is_default", t.IsDefault)
	return nil
}

// Update saves t. Clearing the flag on the last default is allowed and
// leaves the type without a default.
func (s *Service) Update(ctx context.Context, t *Template) error {
	if err := s.validate(ctx, t); err != nil {
		return err
	}
	t.Touch()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if t.IsDefault {
			if err := s.repo.ClearDefaults(ctx, t.DocType, t.ID); err != nil {
				return err
			}
		}
		return s.repo.Update(ctx, t)
	})
}

// GetByID returns one of the operator's templates.
func (s *Service) GetByID(ctx context.Context, templateID id.ID) (*Template, error) {
	return s.repo.GetByID(ctx, templateID)
}

// Get returns the template only when it has the expected type.
func (s *Service) Get(ctx context.Context, docType doctype.Type, templateID id.ID) (*Template, error) {
	t, err := s.repo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if t.DocType != docType {
		return nil, apperror.NewNotFound("template", templateID)
	}
	return t, nil
}

// List returns the operator's templates of docType.
func (s *Service) List(ctx context.Context, docType doctype.Type) ([]*Template, error) {
	return s.repo.List(ctx, docType)
}

// Delete removes a template. Documents using it keep their data and lose
// the reference.
func (s *Service) Delete(ctx context.Context, docType doctype.Type, templateID id.ID) error {
	if _, err := s.Get(ctx, docType, templateID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, templateID); err != nil {
		return err
	}
	logger.Info(ctx, "template deleted", "template_id", templateID, "doc_type", docType)
	return nil
}

// Duplicate deep-copies a template under the first free "<name> (Copy)",
// "<name> (Copy 2)", ... name. The copy is never the default.
func (s *Service) Duplicate(ctx context.Context, docType doctype.Type, templateID id.ID) (*Template, error) {
	src, err := s.Get(ctx, docType, templateID)
	if err != nil {
		return nil, err
	}

	var dup *Template
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		name, err := s.copyName(ctx, src)
		if err != nil {
			return err
		}
		dup = src.Clone(name)
		return s.repo.Create(ctx, dup)
	})
	if err != nil {
		return nil, err
	}
	return dup, nil
}

func (s *Service) copyName(ctx context.Context, src *Template) (string, error) {
	for n := 1; n <= maxCopySuffix; n++ {
		name := src.Name + " (Copy)"
		if n > 1 {
			name = fmt.Sprintf("%s (Copy %d)", src.Name, n)
		}
		taken, err := s.repo.NameExists(ctx, src.DocType, name)
		if err != nil {
			return "", err
		}
		if !taken {
			return name, nil
		}
	}
	return "", apperror.NewDuplicateName("template", src.Name+" (Copy)")
}

// ApplyToAll sets the template on every document of its type owned by the
// operator and returns how many documents were changed.
func (s *Service) ApplyToAll(ctx context.Context, docType doctype.Type, templateID id.ID) (int64, error) {
	t, err := s.Get(ctx, docType, templateID)
	if err != nil {
		return 0, err
	}

	var n int64
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.binder.BindTemplate(ctx, t.DocType, t.ID)
		return err
	})
	if err != nil {
		return 0, err
	}

	logger.Info(ctx, "template applied to all documents",
		"template_id", t.ID,
		"doc_type", t.DocType,
		"documents", n)
	return n, nil
}

// GetDefault returns the operator's default template of docType. Without a
// default the oldest template is used; without any template one is created
// from the built-in defaults. Extra defaults are repaired so that the oldest
// one wins.
func (s *Service) GetDefault(ctx context.Context, docType doctype.Type) (*Template, error) {
	owner, err := tenant.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.List(ctx, docType)
	if err != nil {
		return nil, err
	}

	var defaults []*Template
	for _, t := range list {
		if t.IsDefault {
			defaults = append(defaults, t)
		}
	}

	switch {
	case len(defaults) == 1:
		return defaults[0], nil
	case len(defaults) > 1:
		winner := oldest(defaults)
		logger.Warn(ctx, "repairing multiple default templates",
			"doc_type", docType,
			"count", len(defaults),
			"kept", winner.ID)
		if err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			return s.repo.ClearDefaults(ctx, docType, winner.ID)
		}); err != nil {
			return nil, err
		}
		return winner, nil
	case len(list) > 0:
		return oldest(list), nil
	}

	t := NewTemplate(owner, docType)
	t.IsDefault = true
	if err := s.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Resolve returns the requested template when the operator owns one of that
// type, otherwise the default.
func (s *Service) Resolve(ctx context.Context, docType doctype.Type, templateID *id.ID) (*Template, error) {
	if templateID != nil {
		t, err := s.Get(ctx, docType, *templateID)
		if err == nil {
			return t, nil
		}
		if !apperror.IsNotFound(err) {
			return nil, err
		}
	}
	return s.GetDefault(ctx, docType)
}

func oldest(list []*Template) *Template {
	best := list[0]
	for _, t := range list[1:] {
		if id.Less(t.ID, best.ID) {
			best = t
		}
	}
	return best
}
