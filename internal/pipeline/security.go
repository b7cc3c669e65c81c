package pipeline

import (
	"fmt"
	"strings"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/correlator"
)

// SecurityObservations applies the security heuristics to a finished page
// run: HTTPS presence and mixed content. Mixed content counts only plain-HTTP
// request URLs observed while the page itself is served over HTTPS; an HTTP
// page with HTTP requests yields no mixed-content observation.
func SecurityObservations(pageURL string, requests []correlator.RequestRecord) []string {
	observations := []string{}

	pageIsHTTPS := strings.HasPrefix(pageURL, "https://")
	if !pageIsHTTPS {
		observations = append(observations, "Website not using HTTPS")
	}

	httpRequests := 0
	for _, req := range requests {
		if strings.HasPrefix(req.URL, "http://") {
			httpRequests++
		}
	}

	if httpRequests > 0 && pageIsHTTPS {
		observations = append(observations,
			fmt.Sprintf("Mixed content detected: %d HTTP requests on HTTPS page", httpRequests))
	}

	return observations
}
