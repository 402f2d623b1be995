// Package uploads coordinates direct-to-storage image uploads so the server
// never handles file bytes. Per owner the lifecycle is: no upload -> staged
// (signed PUT URL issued, row unconfirmed) -> confirmed (row confirmed, post
// stamped with the public URL) -> back to none on cancel, or to a fresh
// staged row when a new upload is requested.
package uploads

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"time"

	"contactsapp/models"
	"contactsapp/pkg/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultPrefix is the bucket folder uploaded objects live under.
const DefaultPrefix = "uploads"

// Manager owns the pending_uploads table and the storage signer. Both are
// injected; nothing here reads ambient globals.
type Manager struct {
	db     *gorm.DB
	signer storage.Signer
	prefix string
}

func NewManager(db *gorm.DB, signer storage.Signer, prefix string) *Manager {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Manager{db: db, signer: signer, prefix: strings.Trim(prefix, "/")}
}

// Status describes the owner's confirmed upload. The zero value is the
// empty state ("no file").
type Status struct {
	FileName    string     `json:"file_name"`
	FileType    string     `json:"file_type"`
	FileDate    *time.Time `json:"file_date"`
	FileSize    int64      `json:"file_size"`
	FilePath    string     `json:"file_path"`
	DownloadURL string     `json:"download_url"`
}

// Staged is the result of BeginUpload.
type Staged struct {
	SignedURL string `json:"signed_url"`
	FilePath  string `json:"file_path"`
}

// Confirmation is the result of ConfirmUpload.
type Confirmation struct {
	DownloadURL string    `json:"download_url"`
	FileURL     string    `json:"file_url"`
	FileDate    time.Time `json:"file_date"`
}

// QueryStatus reports the owner's confirmed upload, if any. An unconfirmed
// row found here is an abandoned staging: its object is deleted best-effort,
// the row removed, and the result is the empty state. The result never
// reflects a row whose confirmed flag is false.
func (m *Manager) QueryStatus(ctx context.Context, owner uint) (Status, error) {
	var rows []models.PendingUpload
	if err := m.db.WithContext(ctx).Where("owner_id = ?", owner).Find(&rows).Error; err != nil {
		return Status{}, err
	}
	var confirmed *models.PendingUpload
	for i := range rows {
		r := &rows[i]
		if !r.Confirmed {
			m.deleteObjectQuietly(ctx, r.FilePath)
			if err := m.db.WithContext(ctx).Delete(&models.PendingUpload{}, r.ID).Error; err != nil {
				return Status{}, err
			}
			continue
		}
		confirmed = r
	}
	if confirmed == nil {
		return Status{}, nil
	}
	url, err := m.signer.SignURL(ctx, confirmed.FilePath, storage.VerbGet, "")
	if err != nil {
		return Status{}, err
	}
	d := confirmed.FileDate
	return Status{
		FileName:    confirmed.FileName,
		FileType:    confirmed.FileType,
		FileDate:    &d,
		FileSize:    confirmed.FileSize,
		FilePath:    confirmed.FilePath,
		DownloadURL: url,
	}, nil
}

// BeginUpload stages a new upload: it invalidates whatever the owner had
// before (rows and objects), records an unconfirmed row under a fresh
// globally-unique object path, and returns a PUT URL signed for that path
// and MIME type. A signer failure propagates; the staged row it may leave
// behind is collected lazily by QueryStatus.
func (m *Manager) BeginUpload(ctx context.Context, owner uint, fileName, mimeType string) (Staged, error) {
	path := m.newObjectPath(fileName)
	if err := m.purgeExcept(ctx, owner, ""); err != nil {
		return Staged{}, err
	}
	row := models.PendingUpload{
		OwnerID:  owner,
		FilePath: path,
		FileName: fileName,
		FileType: mimeType,
		FileDate: time.Now().UTC(),
	}
	if err := m.db.WithContext(ctx).Create(&row).Error; err != nil {
		return Staged{}, err
	}
	url, err := m.signer.SignURL(ctx, path, storage.VerbPut, mimeType)
	if err != nil {
		return Staged{}, err
	}
	return Staged{SignedURL: url, FilePath: path}, nil
}

// ConfirmUpload marks the (owner, path) row confirmed with the supplied
// metadata and a server-stamped timestamp, purging any other rows the owner
// has, then stamps the target post's image URL. This is an upsert on
// purpose: if the staged row was lost to a race, a confirmed row is created
// anyway rather than failing the client after its bytes already landed.
func (m *Manager) ConfirmUpload(ctx context.Context, owner, postID uint, path, fileName, fileType string, fileSize int64) (Confirmation, error) {
	if err := m.purgeExcept(ctx, owner, path); err != nil {
		return Confirmation{}, err
	}
	now := time.Now().UTC()
	var row models.PendingUpload
	err := m.db.WithContext(ctx).Where("owner_id = ? AND file_path = ?", owner, path).First(&row).Error
	switch {
	case err == nil:
		row.FileName = fileName
		row.FileType = fileType
		row.FileSize = fileSize
		row.FileDate = now
		row.Confirmed = true
		if err := m.db.WithContext(ctx).Save(&row).Error; err != nil {
			return Confirmation{}, err
		}
	case err == gorm.ErrRecordNotFound:
		row = models.PendingUpload{
			OwnerID: owner, FilePath: path,
			FileName: fileName, FileType: fileType, FileSize: fileSize,
			FileDate: now, Confirmed: true,
		}
		if err := m.db.WithContext(ctx).Create(&row).Error; err != nil {
			return Confirmation{}, err
		}
	default:
		return Confirmation{}, err
	}

	fileURL := m.signer.PublicURL(path)
	if err := m.db.WithContext(ctx).Model(&models.Contact{}).
		Where("id = ?", postID).Update("image_url", fileURL).Error; err != nil {
		return Confirmation{}, err
	}
	downloadURL, err := m.signer.SignURL(ctx, path, storage.VerbGet, "")
	if err != nil {
		return Confirmation{}, err
	}
	return Confirmation{DownloadURL: downloadURL, FileURL: fileURL, FileDate: now}, nil
}

// ResolveSignedURL signs a GET or DELETE for a path the owner already
// staged or confirmed. An unknown path, or a path belonging to another
// owner, yields an empty URL and no error: denial is silent so callers
// cannot enumerate other users' paths. The mismatch is still logged.
func (m *Manager) ResolveSignedURL(ctx context.Context, owner uint, path string, verb storage.Verb) (string, error) {
	var row models.PendingUpload
	err := m.db.WithContext(ctx).Where("file_path = ?", path).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if row.OwnerID != owner {
		log.Printf("uploads: denied %s signing of %s: owner %d != requester %d", verb, path, row.OwnerID, owner)
		return "", nil
	}
	return m.signer.SignURL(ctx, path, verb, "")
}

// CancelUpload clears the target post's image URL and drops the (owner,
// path) row. The storage object itself is the client's to remove via the
// signed DELETE URL it resolved beforehand.
func (m *Manager) CancelUpload(ctx context.Context, owner, postID uint, path string) error {
	if err := m.db.WithContext(ctx).Model(&models.Contact{}).
		Where("id = ?", postID).Update("image_url", nil).Error; err != nil {
		return err
	}
	return m.db.WithContext(ctx).
		Where("owner_id = ? AND file_path = ?", owner, path).
		Delete(&models.PendingUpload{}).Error
}

// purgeExcept removes the owner's upload rows (and their storage objects,
// best-effort) except the one at keepPath. Empty keepPath purges everything.
func (m *Manager) purgeExcept(ctx context.Context, owner uint, keepPath string) error {
	var rows []models.PendingUpload
	if err := m.db.WithContext(ctx).Where("owner_id = ?", owner).Find(&rows).Error; err != nil {
		return err
	}
	for _, r := range rows {
		if keepPath != "" && r.FilePath == keepPath {
			continue
		}
		m.deleteObjectQuietly(ctx, r.FilePath)
		if err := m.db.WithContext(ctx).Delete(&models.PendingUpload{}, r.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

// deleteObjectQuietly swallows storage errors: the object may already be
// gone and cleanup must not fail the request.
func (m *Manager) deleteObjectQuietly(ctx context.Context, path string) {
	if err := m.signer.DeleteObject(ctx, path); err != nil {
		log.Printf("uploads: ignoring storage delete error for %s: %v", path, err)
	}
}

// newObjectPath builds <prefix>/<uuid><original extension>.
func (m *Manager) newObjectPath(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return m.prefix + "/" + uuid.New().String() + ext
}
