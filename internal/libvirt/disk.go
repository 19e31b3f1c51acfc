package libvirt

import (
	"fmt"

	"libvirt.org/go/libvirtxml"

	"github.com/jbweber/vbdctl/api/v1alpha1"
	"github.com/jbweber/vbdctl/internal/naming"
)

// DiskXML renders a VBD as a libvirt <disk> element for a Xen domain.
//
// The source device is the partition backing the VBD: the bound partition
// itself, or the partition a virtual disk was created on. st supplies the
// virtual disk lookup.
func DiskXML(st *v1alpha1.State, v v1alpha1.VBD) (string, error) {
	partition := v.Partition
	if v.VirtualDisk != "" {
		vd, ok := st.GetVirtualDisk(v.VirtualDisk)
		if !ok {
			return "", fmt.Errorf("virtual disk %s of domain %d vbd %d does not exist", v.VirtualDisk, v.Domain, v.Number)
		}
		partition = vd.Partition
	}
	if partition == "" {
		return "", fmt.Errorf("domain %d vbd %d has no backing partition", v.Domain, v.Number)
	}

	disk := &libvirtxml.DomainDisk{
		Device: "disk",
		Driver: &libvirtxml.DomainDiskDriver{
			Name: "phy",
		},
		Source: &libvirtxml.DomainDiskSource{
			Block: &libvirtxml.DomainDiskSourceBlock{
				Dev: naming.DevicePath(partition),
			},
		},
		Target: &libvirtxml.DomainDiskTarget{
			Dev: naming.TargetDevice(v.Number),
			Bus: "xen",
		},
	}
	if !v.Mode.Writable() {
		disk.ReadOnly = &libvirtxml.DomainDiskReadOnly{}
	}

	xml, err := disk.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to marshal disk XML: %w", err)
	}

	return xml, nil
}
