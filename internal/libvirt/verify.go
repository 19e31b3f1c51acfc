package libvirt

import (
	"fmt"
	"io"

	"github.com/digitalocean/go-libvirt"
	"github.com/sirupsen/logrus"
)

// domainLookup defines the libvirt operations needed to check a domain id.
//
// In production, this is satisfied by *libvirt.Libvirt directly.
// In tests, this is satisfied by mock implementations.
type domainLookup interface {
	DomainLookupByID(id int32) (libvirt.Domain, error)
}

// DomainNotFoundError reports a domain id libvirt does not know.
type DomainNotFoundError struct {
	ID  int
	Err error
}

func (e *DomainNotFoundError) Error() string {
	return fmt.Sprintf("domain %d is not known to libvirt", e.ID)
}

func (e *DomainNotFoundError) Unwrap() error {
	return e.Err
}

// Verifier checks domain ids against libvirt.
type Verifier struct {
	lv     domainLookup
	logger *logrus.Logger
}

// NewVerifier creates a Verifier. lv is usually Client.Libvirt().
func NewVerifier(lv domainLookup, logger *logrus.Logger) *Verifier {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Verifier{lv: lv, logger: logger}
}

// Verify returns nil if libvirt has an active domain with the given id.
func (v *Verifier) Verify(id int) error {
	if id < 1 || int64(id) > int64(^uint32(0)>>1) {
		return &DomainNotFoundError{ID: id}
	}

	dom, err := v.lv.DomainLookupByID(int32(id))
	if err != nil {
		if libvirt.IsNotFound(err) {
			return &DomainNotFoundError{ID: id, Err: err}
		}
		return fmt.Errorf("failed to look up domain %d: %w", id, err)
	}

	v.logger.WithFields(logrus.Fields{
		"domain": id,
		"name":   dom.Name,
	}).Debug("domain verified")
	return nil
}
