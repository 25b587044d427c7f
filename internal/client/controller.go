package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"photorestore/internal/imagecodec"
)

// DownloadName is the file name Download writes.
const DownloadName = "restored-photo.png"

// RestoreFailedMessage is the user-facing text for any unsuccessful response.
const RestoreFailedMessage = "Failed to restore image"

var (
	ErrNothingSelected   = errors.New("no image selected")
	ErrRestoreInFlight   = errors.New("restore already in flight")
	ErrNothingToDownload = errors.New("no restored image")
	ErrUnsupportedFile   = errors.New("unsupported file type")
	ErrSelectionChanged  = errors.New("selection changed while restoring")
)

var mimeByExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

// Restorer is the remote restoration call.
type Restorer interface {
	Restore(ctx context.Context, dataURL string) (*RestoreResult, error)
}

// State is a snapshot of the controller.
type State struct {
	Selected string
	Restored string
	InFlight bool
	Error    string
	Result   *RestoreResult
}

// Controller holds the upload/preview state for one user. It allows a single
// restore at a time and drops responses that belong to an older selection.
type Controller struct {
	api Restorer

	mu         sync.Mutex
	selected   string
	restored   string
	inFlight   bool
	errMsg     string
	result     *RestoreResult
	generation uint64
}

func NewController(api Restorer) *Controller {
	return &Controller{api: api}
}

// SelectFile loads a .png, .jpg, .jpeg or .webp file as the current image.
func (c *Controller) SelectFile(path string) error {
	mime, ok := mimeByExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(path))
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	c.SelectDataURL(imagecodec.EncodeBytes(mime, raw))
	return nil
}

// SelectDataURL makes dataURL the current image and discards any previous
// result or error.
func (c *Controller) SelectDataURL(dataURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.restored = ""
	c.errMsg = ""
	c.result = nil
	c.selected = dataURL
}

// Clear resets the controller so a different photo can be uploaded.
func (c *Controller) Clear() {
	c.SelectDataURL("")
}

// CanRestore reports whether Restore would dispatch.
func (c *Controller) CanRestore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected != "" && !c.inFlight
}

// Restore submits the selected image. On failure the error state is set and
// the image state is left as it was.
func (c *Controller) Restore(ctx context.Context) error {
	c.mu.Lock()
	if c.selected == "" {
		c.mu.Unlock()
		return ErrNothingSelected
	}
	if c.inFlight {
		c.mu.Unlock()
		return ErrRestoreInFlight
	}
	c.inFlight = true
	c.errMsg = ""
	gen := c.generation
	image := c.selected
	c.mu.Unlock()

	res, err := c.api.Restore(ctx, image)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if gen != c.generation {
		return ErrSelectionChanged
	}
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			c.errMsg = RestoreFailedMessage
		} else {
			c.errMsg = err.Error()
		}
		return err
	}
	c.restored = res.RestoredImage
	c.result = res
	return nil
}

// CanDownload reports whether a restored image is available.
func (c *Controller) CanDownload() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restored != ""
}

// Download writes the restored image into dir and returns the file path.
func (c *Controller) Download(dir string) (string, error) {
	c.mu.Lock()
	restored := c.restored
	c.mu.Unlock()
	if restored == "" {
		return "", ErrNothingToDownload
	}

	payload, err := imagecodec.Decode(restored)
	if err != nil {
		return "", err
	}
	raw, err := payload.Bytes()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, DownloadName)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write restored image: %w", err)
	}
	return path, nil
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Selected: c.selected,
		Restored: c.restored,
		InFlight: c.inFlight,
		Error:    c.errMsg,
		Result:   c.result,
	}
}
