package middleware

import (
	"ashtray_server/lib"
	"context"
	"net/http"
)

// DeviceMiddleware makes sure every visitor carries an anonymous device id and exposes it on the context.
func (mw *Middleware) DeviceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID, err := lib.GetCookieValue(lib.DeviceCookieName, r)
		if err != nil || !lib.IsValidOpaqueID(deviceID) {
			deviceID = lib.NewDeviceID()
			lib.SetDeviceCookie(deviceID, mw.cfg.Cookies, w)
		}

		ctx := context.WithValue(r.Context(), DeviceIDContextKey, deviceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetDeviceID(ctx context.Context) string {
	deviceID, _ := ctx.Value(DeviceIDContextKey).(string)
	return deviceID
}
