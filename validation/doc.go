// Package validation validates config sections and request input.
//
// Struct tag validation uses go-playground/validator and reports fields by
// their config key:
//
//	type ServerConfig struct {
//	    Port int `mapstructure:"port" validate:"gt=0,lte=65535"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic validation collects cross-field errors:
//
//	v := validation.New()
//	v.OneOf("llm.provider", cfg.LLM.Provider, registry.List())
//	if err := v.Validate(); err != nil { ... }
package validation
