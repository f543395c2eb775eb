package service

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/arcade-hub-api/internal/livestatus"
)

const dateLayout = "2006-01-02"

// registerArcadeValidations adds the clock, date and weekday tags used by request models.
func registerArcadeValidations(v *validator.Validate) {
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		if len(raw) != 5 || raw[2] != ':' {
			return false
		}
		_, ok := livestatus.ParseClock(raw)
		return ok
	})
	_ = v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dateLayout, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, ok := livestatus.ParseWeekday(fl.Field().String())
		return ok
	})
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
