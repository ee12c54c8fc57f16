// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/resume-publisher/internal/container"
	"github.com/pdiddy/resume-publisher/pkg/types"
)

// ContainerConverter converts documents by piping them through a converter
// image that reads a DOCX on stdin and writes a PDF to stdout. It depends on
// a container.Runtime (docker or podman) injected at construction time.
type ContainerConverter struct {
	runtime container.Runtime
	image   string
}

// NewContainerConverter creates a converter that runs image with rt. It
// verifies that the image exists locally before returning.
func NewContainerConverter(ctx context.Context, rt container.Runtime, image string) (*ContainerConverter, error) {
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("converter image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerConverter{runtime: rt, image: image}, nil
}

// Convert pipes srcPath through the container and writes the output to
// outDir/<stem>.pdf.
func (c *ContainerConverter) Convert(ctx context.Context, srcPath, outDir string) (string, error) {
	in, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer in.Close()

	pdfPath := OutputPath(types.NewResumeFile(srcPath), outDir)
	out, err := os.Create(pdfPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", pdfPath, err)
	}

	runErr := c.runtime.Run(ctx, c.image, in, out)
	closeErr := out.Close()
	if runErr != nil {
		return "", fmt.Errorf("converting %s with %s: %w", srcPath, c.image, runErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("writing %s: %w", pdfPath, closeErr)
	}
	return pdfPath, nil
}
