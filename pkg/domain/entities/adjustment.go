package entities

import "fmt"

// AdjustmentRange bounds the box count the search may assign to one adjustable line.
// Nil bounds fall back to the search defaults.
type AdjustmentRange struct {
	Min *int
	Max *int
}

// NewAdjustmentRange creates a validated range with both bounds set
func NewAdjustmentRange(min, max int) (AdjustmentRange, error) {
	r := AdjustmentRange{Min: &min, Max: &max}
	if err := r.Validate(); err != nil {
		return AdjustmentRange{}, err
	}
	return r, nil
}

// Validate checks the bounds that can be judged without the distributable total
func (r AdjustmentRange) Validate() error {
	if r.Min != nil && *r.Min < 0 {
		return fmt.Errorf("minimum boxes cannot be negative, got %d", *r.Min)
	}
	if r.Max != nil && *r.Max < 0 {
		return fmt.Errorf("maximum boxes cannot be negative, got %d", *r.Max)
	}
	if r.Min != nil && r.Max != nil && *r.Min >= *r.Max {
		return fmt.Errorf("minimum boxes (%d) must be less than maximum boxes (%d)", *r.Min, *r.Max)
	}
	return nil
}

// String method for AdjustmentRange
func (r AdjustmentRange) String() string {
	bound := func(p *int) string {
		if p == nil {
			return "*"
		}
		return fmt.Sprintf("%d", *p)
	}
	return fmt.Sprintf("[%s,%s]", bound(r.Min), bound(r.Max))
}
