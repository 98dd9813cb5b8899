package service

import "crosssell-service/internal/models"

// AttributeValidator can veto an attribute from a product's option set.
type AttributeValidator interface {
	Accepts(option models.ConfigurableOption) bool
}

// ValidatorChain accepts an attribute only if every validator does.
type ValidatorChain []AttributeValidator

// Accepts evaluates the chain as a composite AND
func (c ValidatorChain) Accepts(option models.ConfigurableOption) bool {
	for _, v := range c {
		if !v.Accepts(option) {
			return false
		}
	}
	return true
}

// NonEmptyLabelValidator rejects attributes with no display label.
type NonEmptyLabelValidator struct{}

func (NonEmptyLabelValidator) Accepts(option models.ConfigurableOption) bool {
	return option.Label != ""
}
