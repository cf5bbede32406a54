package service

import (
	"github.com/smartcity/airquality/internal/domain"
)

// ObservationSource is re-exported from domain so handlers depend on the service layer only
type ObservationSource = domain.ObservationSource
