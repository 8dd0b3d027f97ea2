package providers

import (
	"fmt"
	"time"

	"github.com/gookit/validate"

	"stravaboard/internal/structures"
)

const dayLayout = "2006-01-02"

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	if _, err := time.Parse(time.RFC3339, cv.conf.Strava.AfterDate); err != nil {
		return fmt.Errorf("strava.afterDate must be RFC 3339: %w", err)
	}
	for _, d := range cv.conf.Competition.DoubleScoreDates {
		if _, err := time.Parse(dayLayout, d); err != nil {
			return fmt.Errorf("competition.doubleScoreDates entry %q must be YYYY-MM-DD: %w", d, err)
		}
	}
	return nil
}
