//go:build !osrmnative

package engine

import "route-engine-client/internal/domain"

func openNativeBoundary(string, domain.Algorithm) (boundary, error) {
	return nil, errNativeUnavailable
}
