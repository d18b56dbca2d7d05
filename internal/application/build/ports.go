package build

import "context"

// DefectAlertService notifies interested parties about defects recorded on a
// build. Notification happens after the build commits and never affects its
// outcome; a failed notification is logged and dropped.
type DefectAlertService interface {
	NotifyDefects(ctx context.Context, alert DefectAlert) error
}
