package sampler

import (
	"errors"
	"fmt"
)

// ErrLinkUnparseable carries the only text shown for a link that yielded
// no coordinates, whatever the underlying reason.
var ErrLinkUnparseable = errors.New("تعذر استخراج الإحداثيات من الرابط")

// ErrModeMismatch is returned for a GPS sample while link mode is active.
var ErrModeMismatch = errors.New("sampler: link mode is active")

var ErrSamplerClosed = errors.New("sampler: closed")

// GeolocationCode follows the browser Geolocation API error codes.
type GeolocationCode int

const (
	GeolocationUnknown             GeolocationCode = 0
	GeolocationPermissionDenied    GeolocationCode = 1
	GeolocationPositionUnavailable GeolocationCode = 2
	GeolocationTimeout             GeolocationCode = 3
)

var geolocationMessages = map[GeolocationCode]string{
	GeolocationPermissionDenied:    "تم رفض إذن الوصول إلى الموقع",
	GeolocationPositionUnavailable: "الموقع غير متاح حاليًا",
	GeolocationTimeout:             "انتهت مهلة تحديد الموقع",
	GeolocationUnknown:             "تعذر تحديد الموقع",
}

// GeolocationError is a device positioning failure. It is reported to the
// courier and never retried automatically.
type GeolocationError struct {
	Code GeolocationCode
	Err  error
}

// NewGeolocationError maps a raw code; unrecognized codes become unknown.
func NewGeolocationError(code int) *GeolocationError {
	c := GeolocationCode(code)
	if _, ok := geolocationMessages[c]; !ok {
		c = GeolocationUnknown
	}
	return &GeolocationError{Code: c}
}

// Message is the user-facing text for the error code.
func (e *GeolocationError) Message() string {
	return geolocationMessages[e.Code]
}

func (e *GeolocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geolocation code %d: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("geolocation code %d: %s", e.Code, e.Message())
}

func (e *GeolocationError) Unwrap() error { return e.Err }
