package api

import (
	"log/slog"
	"net/http"
	"runtime"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/wattline/emporia/pkg/serializer"
	ver "github.com/wattline/emporia/pkg/version"
)

// InfoResponse describes the running service build and environment. It is
// the payload of the info endpoint.
type InfoResponse struct {
	Name      string        `json:"name" yaml:"name"`
	Version   VersionDetail `json:"version" yaml:"version"`
	Commit    string        `json:"commit" yaml:"commit"`
	BuildDate string        `json:"buildDate" yaml:"buildDate"`
	Runtime   RuntimeDetail `json:"runtime" yaml:"runtime"`
	Image     *ImageDetail  `json:"image,omitempty" yaml:"image,omitempty"`
}

// VersionDetail carries the raw version string plus its parsed components
// when the string is a semantic version.
type VersionDetail struct {
	Raw   string `json:"raw" yaml:"raw"`
	Major int    `json:"major,omitempty" yaml:"major,omitempty"`
	Minor int    `json:"minor,omitempty" yaml:"minor,omitempty"`
	Patch int    `json:"patch,omitempty" yaml:"patch,omitempty"`
}

// RuntimeDetail reports the Go runtime and platform the binary runs on.
type RuntimeDetail struct {
	Go   string `json:"go" yaml:"go"`
	OS   string `json:"os" yaml:"os"`
	Arch string `json:"arch" yaml:"arch"`
}

// ImageDetail reports the container image the service was deployed from,
// annotated with standard OCI image metadata keys.
type ImageDetail struct {
	Reference   string            `json:"reference" yaml:"reference"`
	Annotations map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// newInfoResponse assembles the service description served by the info
// endpoint. Version strings that do not parse as semantic versions (such
// as "dev") keep only their raw form. A malformed image reference is
// logged and omitted from the payload rather than failing startup.
func newInfoResponse(service, rawVersion, commit, date, image string) InfoResponse {
	info := InfoResponse{
		Name:      service,
		Version:   VersionDetail{Raw: rawVersion},
		Commit:    commit,
		BuildDate: date,
		Runtime: RuntimeDetail{
			Go:   runtime.Version(),
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	if v, err := ver.ParseVersion(rawVersion); err == nil {
		info.Version.Major = v.Major
		info.Version.Minor = v.Minor
		info.Version.Patch = v.Patch
	}

	if image != "" {
		detail, err := newImageDetail(service, rawVersion, commit, date, image)
		if err != nil {
			slog.Warn("ignoring malformed image reference", "image", image, "error", err)
		} else {
			info.Image = detail
		}
	}

	return info
}

// newImageDetail normalizes the image reference to its canonical tagged
// form ("emporia" becomes "docker.io/library/emporia:latest").
func newImageDetail(service, rawVersion, commit, date, image string) (*ImageDetail, error) {
	named, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		return nil, err
	}

	annotations := map[string]string{
		ociv1.AnnotationTitle:   service,
		ociv1.AnnotationVersion: rawVersion,
		ociv1.AnnotationVendor:  "Wattline",
		ociv1.AnnotationSource:  "https://github.com/wattline/emporia",
	}
	if commit != "unknown" {
		annotations[ociv1.AnnotationRevision] = commit
	}
	if date != "unknown" {
		annotations[ociv1.AnnotationCreated] = date
	}

	return &ImageDetail{
		Reference:   reference.TagNameOnly(named).String(),
		Annotations: annotations,
	}, nil
}

// handleInfo serves the service description. The payload is static for the
// life of the process, so it is assembled once at startup.
func handleInfo(info InfoResponse) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serializer.RespondJSON(w, http.StatusOK, info)
	}
}
