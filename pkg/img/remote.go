package img

import (
	"fmt"
	"net/http"
)

// NewRemoteImage loads an image over HTTP and returns a new
// NativeImage instance.
func NewRemoteImage(src string, client *http.Client) (*NativeImage, error) {
	if client == nil {
		client = http.DefaultClient
	}

	if src == "" {
		return nil, fmt.Errorf("No image URL")
	}

	rsp, err := client.Get(src)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("Invalid response status (%d)", rsp.StatusCode)
	}

	return NewNativeImage(rsp.Body)
}
