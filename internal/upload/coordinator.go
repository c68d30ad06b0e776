package upload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kjartanf/syna/internal/api"
)

// Status is the lifecycle state of one upload task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// Task tracks one file through the upload protocol. ID is assigned client
// side so a task exists before the server names an image id.
type Task struct {
	ID       string
	ImageID  string
	Filename string
	Progress int // 0..100
	Status   Status
	Err      string
}

// ProjectAPI is the slice of the API client the coordinator needs.
// Implemented by *api.MyProjectsClient; narrowed for testing.
type ProjectAPI interface {
	ImageUploadURL(ctx context.Context, projectID, filename, contentType string, fileSize int64) (*api.PresignedUpload, error)
	CompleteImageUpload(ctx context.Context, projectID, imageID string, width, height int) (*api.ProjectImage, error)
}

var _ ProjectAPI = (*api.MyProjectsClient)(nil)

const defaultRemoveDelay = 2 * time.Second

// Options configure a Coordinator.
type Options struct {
	ProjectID string
	API       ProjectAPI

	// OnComplete receives the canonical image record after a confirmed upload.
	OnComplete func(api.ProjectImage)
	// OnError receives validation and per-file upload failures.
	OnError func(error)
	// OnChange fires after any task mutation so a UI can re-render.
	OnChange func()

	// Storage performs the raw transfer to the presigned URL. Defaults to a
	// client with no overall timeout; large uploads are bounded by transport
	// errors, not a wall clock.
	Storage *http.Client

	// RemoveDelay is how long a completed task stays visible before it is
	// dropped from the active set. Zero uses the default of 2s.
	RemoveDelay time.Duration
}

// Coordinator runs concurrent multi-file uploads for a single project. One
// instance belongs to one edit screen; tasks are not shared across instances.
type Coordinator struct {
	projectID   string
	api         ProjectAPI
	storage     *http.Client
	removeDelay time.Duration
	onComplete  func(api.ProjectImage)
	onError     func(error)
	onChange    func()

	mu     sync.Mutex
	tasks  []*Task
	timers map[string]*time.Timer
	closed bool

	wg sync.WaitGroup
}

// NewCoordinator builds a Coordinator from opts.
func NewCoordinator(opts Options) *Coordinator {
	storage := opts.Storage
	if storage == nil {
		storage = &http.Client{}
	}
	removeDelay := opts.RemoveDelay
	if removeDelay <= 0 {
		removeDelay = defaultRemoveDelay
	}
	return &Coordinator{
		projectID:   opts.ProjectID,
		api:         opts.API,
		storage:     storage,
		removeDelay: removeDelay,
		onComplete:  opts.OnComplete,
		onError:     opts.OnError,
		onChange:    opts.OnChange,
		timers:      make(map[string]*time.Timer),
	}
}

// UploadFiles starts one independent upload per path and returns immediately.
func (c *Coordinator) UploadFiles(ctx context.Context, paths []string) {
	for _, path := range paths {
		path := path
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.uploadFile(ctx, path)
		}()
	}
}

// Wait blocks until every started upload has settled. Cleanup timers may
// still be pending afterwards.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Close stops pending cleanup timers. Tasks already settled stay settled.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
}

// Tasks returns a snapshot of the active task set, in submission order.
func (c *Coordinator) Tasks() []Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make([]Task, len(c.tasks))
	for i, t := range c.tasks {
		snapshot[i] = *t
	}
	return snapshot
}

// Uploading reports whether any task is still in flight.
func (c *Coordinator) Uploading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		if t.Status == StatusPending || t.Status == StatusUploading || t.Status == StatusProcessing {
			return true
		}
	}
	return false
}

// uploadFile runs the four-phase protocol for a single file:
// validate, authorize, transfer, confirm.
func (c *Coordinator) uploadFile(ctx context.Context, path string) {
	filename := filepath.Base(path)

	// Phase 1: local validation. Rejection creates no task and produces no
	// network traffic.
	info, err := os.Stat(path)
	if err != nil {
		c.reportError(fmt.Errorf("stat %s: %w", filename, err))
		return
	}
	if info.Size() > maxFileSize {
		c.reportError(fmt.Errorf("%s: file size must be less than 10MB", filename))
		return
	}
	contentType, err := detectContentType(path)
	if err != nil {
		c.reportError(fmt.Errorf("%s: %w", filename, err))
		return
	}
	if !allowedTypes[contentType] {
		c.reportError(fmt.Errorf("%s: invalid file type: %s", filename, contentType))
		return
	}

	// Dimensions are best effort; the confirm call omits them when the local
	// decode fails.
	width, height, err := imageDimensions(path)
	if err != nil {
		width, height = 0, 0
	}

	task := &Task{
		ID:       uuid.NewString(),
		Filename: filename,
		Status:   StatusPending,
	}
	c.addTask(task)

	// Phase 2: authorize.
	presigned, err := c.api.ImageUploadURL(ctx, c.projectID, filename, contentType, info.Size())
	if err != nil {
		c.failTask(task.ID, err)
		return
	}
	c.updateTask(task.ID, func(t *Task) {
		t.ImageID = presigned.ImageID
		t.Status = StatusUploading
		t.Progress = 0
	})

	// Phase 3: transfer directly to storage.
	if err := c.transfer(ctx, task.ID, path, info.Size(), presigned); err != nil {
		c.failTask(task.ID, err)
		return
	}
	c.updateTask(task.ID, func(t *Task) { t.Status = StatusProcessing })

	// Phase 4: confirm with the API.
	image, err := c.api.CompleteImageUpload(ctx, c.projectID, presigned.ImageID, width, height)
	if err != nil {
		c.failTask(task.ID, err)
		return
	}
	c.updateTask(task.ID, func(t *Task) {
		t.Status = StatusComplete
		t.Progress = 100
	})
	if c.onComplete != nil {
		c.onComplete(*image)
	}
	c.scheduleRemoval(task.ID)
}

// transfer streams the file to the presigned URL using exactly the method
// and headers the descriptor dictates.
func (c *Coordinator) transfer(ctx context.Context, taskID, path string, size int64, presigned *api.PresignedUpload) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	body := &progressReader{
		r:     f,
		total: size,
		onProgress: func(pct int) {
			c.updateTask(taskID, func(t *Task) { t.Progress = pct })
		},
	}

	req, err := http.NewRequestWithContext(ctx, presigned.Method, presigned.UploadURL, body)
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	req.ContentLength = size
	for key, value := range presigned.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.storage.Do(req)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}
	return nil
}

func (c *Coordinator) addTask(task *Task) {
	c.mu.Lock()
	c.tasks = append(c.tasks, task)
	c.mu.Unlock()
	c.notifyChange()
}

func (c *Coordinator) updateTask(taskID string, apply func(*Task)) {
	c.mu.Lock()
	for _, t := range c.tasks {
		if t.ID == taskID {
			apply(t)
			break
		}
	}
	c.mu.Unlock()
	c.notifyChange()
}

// failTask marks the task terminal with a message and reports the error.
// Other in-flight tasks are unaffected; there is no automatic retry.
func (c *Coordinator) failTask(taskID string, err error) {
	c.updateTask(taskID, func(t *Task) {
		t.Status = StatusError
		t.Err = err.Error()
	})
	c.reportError(err)
}

// scheduleRemoval drops a completed task from the active set after a short
// delay, long enough for a UI to show the finished state.
func (c *Coordinator) scheduleRemoval(taskID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.timers[taskID] = time.AfterFunc(c.removeDelay, func() {
		c.removeTask(taskID)
	})
}

func (c *Coordinator) removeTask(taskID string) {
	c.mu.Lock()
	delete(c.timers, taskID)
	for i, t := range c.tasks {
		if t.ID == taskID {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	c.notifyChange()
}

func (c *Coordinator) reportError(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}

func (c *Coordinator) notifyChange() {
	if c.onChange != nil {
		c.onChange()
	}
}

// progressReader counts bytes as the transport consumes them and reports
// whole-percent changes.
type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	lastPct    int
	onProgress func(pct int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.read += int64(n)
		pct := int(p.read * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct != p.lastPct {
			p.lastPct = pct
			if p.onProgress != nil {
				p.onProgress(pct)
			}
		}
	}
	return n, err
}
