package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/claytondb/salestaxjar-sub000/internal/config"
	thresholddomain "github.com/claytondb/salestaxjar-sub000/internal/threshold/domain"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type registry struct {
	rules map[string]thresholddomain.Rule
}

// NewRegistry builds the immutable rule table once at startup. The built-in
// table can be overridden per state from a YAML file; overrides replace the
// whole rule for that state.
func NewRegistry(cfg config.Config, log *zap.Logger) (thresholddomain.Registry, error) {
	rules := make(map[string]thresholddomain.Rule)
	for _, rule := range builtinRules() {
		rules[rule.StateCode] = rule
	}

	if path := strings.TrimSpace(cfg.ThresholdRulesPath); path != "" {
		overrides, err := loadOverrides(path)
		if err != nil {
			return nil, err
		}
		for _, rule := range overrides {
			rules[rule.StateCode] = rule
		}
		log.Info("threshold rule overrides applied",
			zap.String("path", path),
			zap.Int("count", len(overrides)),
		)
	}

	for code, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("threshold rule %s: %w", code, err)
		}
	}

	return &registry{rules: rules}, nil
}

// NewFixtureRegistry wraps an explicit rule set, for tests.
func NewFixtureRegistry(rules ...thresholddomain.Rule) thresholddomain.Registry {
	m := make(map[string]thresholddomain.Rule, len(rules))
	for _, rule := range rules {
		m[rule.StateCode] = rule
	}
	return &registry{rules: m}
}

func (r *registry) Get(stateCode string) (thresholddomain.Rule, bool) {
	rule, ok := r.rules[strings.ToUpper(strings.TrimSpace(stateCode))]
	return rule, ok
}

func (r *registry) All() []thresholddomain.Rule {
	out := make([]thresholddomain.Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StateCode < out[j].StateCode })
	return out
}

func loadOverrides(path string) ([]thresholddomain.Rule, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read threshold rules %s: %w", path, err)
	}

	var out []thresholddomain.Rule
	if err := v.UnmarshalKey("rules", &out); err != nil {
		return nil, fmt.Errorf("parse threshold rules %s: %w", path, err)
	}
	for i := range out {
		out[i].StateCode = strings.ToUpper(strings.TrimSpace(out[i].StateCode))
	}
	return out, nil
}
