package backend

import (
	"strings"

	"github.com/angelmondragon/aurelis-storefront/pkg/config"
)

// imageResolver turns the backend's mixed image references (absolute URLs,
// Cloudinary public IDs, bare media paths) into a single usable URL form.
type imageResolver struct {
	cloudinaryBase string
	placeholder    string
}

func newImageResolver(cfg config.ImagesConfig) imageResolver {
	return imageResolver{
		cloudinaryBase: "https://res.cloudinary.com/" + cfg.CloudinaryCloudName + "/image/upload/",
		placeholder:    cfg.Placeholder,
	}
}

// Resolve normalizes a single image reference. Empty references resolve to
// the configured placeholder so the caller never renders a broken image.
func (r imageResolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return r.placeholder
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if strings.Contains(ref, "image/upload/") || strings.Contains(ref, "products/") {
		return r.cloudinaryBase + ref
	}
	if !strings.HasPrefix(ref, "/") {
		return "/" + ref
	}
	return ref
}
