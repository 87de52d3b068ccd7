package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var resourceLinkPattern = regexp.MustCompile(`^/([a-z][a-z0-9_-]*)/([0-9]+)/?$`)

// ResourceRef identifies the resource a notification link points at.
type ResourceRef struct {
	Type string
	ID   int64
}

// ParseResourceLink extracts the resource reference from an internal deep link such as /events/42.
// External URLs and links without a numeric id yield false and are never treated as stale.
func ParseResourceLink(link string) (ResourceRef, bool) {
	match := resourceLinkPattern.FindStringSubmatch(strings.TrimSpace(link))
	if match == nil {
		return ResourceRef{}, false
	}

	id, err := strconv.ParseInt(match[2], 10, 64)
	if err != nil || id <= 0 {
		return ResourceRef{}, false
	}
	return ResourceRef{Type: match[1], ID: id}, true
}

// ResourceLink renders the canonical deep link for a resource.
func ResourceLink(resourceType string, id int64) string {
	return fmt.Sprintf("/%s/%d", resourceType, id)
}

// resourceLinkVariants lists the stored spellings that resolve to the same resource.
func resourceLinkVariants(resourceType string, id int64) []string {
	link := ResourceLink(resourceType, id)
	return []string{link, link + "/"}
}
