package core

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hamidzr/stylefind/model"
)

// InstallReason is recorded on styles installed from search results.
const InstallReason = "install"

// StyleSource downloads installable styles from the catalog.
type StyleSource interface {
	Style(ctx context.Context, id int64) (*model.StyleDetail, error)
	StyleJSON(ctx context.Context, id int64) (*model.StylePayload, error)
}

// StyleStore persists installed styles.
type StyleStore interface {
	Save(ctx context.Context, style model.Style) (model.Style, error)
	Delete(ctx context.Context, id string) error
}

// Installer installs and removes catalog styles.
type Installer struct {
	source StyleSource
	store  StyleStore
	log    *logrus.Entry
}

func NewInstaller(source StyleSource, store StyleStore) *Installer {
	return &Installer{
		source: source,
		store:  store,
		log:    logrus.WithField("component", "installer"),
	}
}

// Install downloads the payload and settings of r concurrently and saves the
// style. Styles with settings get a "?" appended to their update URL.
func (in *Installer) Install(ctx context.Context, r *model.SearchResult) (model.Style, error) {
	var (
		payload *model.StylePayload
		detail  *model.StyleDetail
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		payload, err = in.source.StyleJSON(gctx, r.ID)
		return errors.Wrapf(err, "download style %d", r.ID)
	})
	g.Go(func() error {
		var err error
		detail, err = in.source.Style(gctx, r.ID)
		return errors.Wrapf(err, "load settings of style %d", r.ID)
	})
	if err := g.Wait(); err != nil {
		return model.Style{}, err
	}

	style := model.Style{
		Name:      payload.Name,
		UpdateURL: payload.UpdateURL,
		USOID:     r.ID,
		Reason:    InstallReason,
		Source:    string(payload.Raw),
	}
	if style.Name == "" {
		style.Name = r.Name
	}
	if style.UpdateURL == "" {
		style.UpdateURL = model.Fingerprint(r.ID)
	}
	if len(detail.StyleSettings) > 0 {
		style.HasSettings = true
		style.UpdateURL += "?"
	}

	saved, err := in.store.Save(ctx, style)
	if err != nil {
		return model.Style{}, errors.Wrapf(err, "save style %d", r.ID)
	}
	in.log.WithFields(logrus.Fields{"uso_id": r.ID, "id": saved.ID}).Info("style installed")
	return saved, nil
}

// Uninstall removes the local copy of r.
func (in *Installer) Uninstall(ctx context.Context, r *model.SearchResult) error {
	if r.InstalledLocalID == "" {
		return errors.Errorf("style %d is not installed", r.ID)
	}
	if err := in.store.Delete(ctx, r.InstalledLocalID); err != nil {
		return errors.Wrapf(err, "remove style %d", r.ID)
	}
	in.log.WithFields(logrus.Fields{"uso_id": r.ID, "id": r.InstalledLocalID}).Info("style removed")
	return nil
}
