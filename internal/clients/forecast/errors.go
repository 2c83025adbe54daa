package forecast

import "errors"

var errMissingYield = errors.New("response missing yield_forecast_bu_acre")
