// Package helper runs the privileged helper executables that perform
// storage access changes at the hypervisor level.
//
// Two invokers are provided:
//   - Exec spawns the helper, waits for it to exit and maps a non-zero exit
//     status to an *ExecutionError.
//   - DryRun never spawns anything. It returns a deterministic rendering of
//     the command line that would have run, so command logic can be
//     exercised without privileged side effects.
//
// Helpers are never retried. A helper that was started may already have
// taken effect even when it reports failure.
//
// Example usage:
//
//	inv := helper.NewExec(logger)
//	argv := helper.Args(domain, ext.Disk, ext.Offset, ext.Size)
//	res, err := inv.Invoke(ctx, "/usr/lib/xen/bin/xi_phys_revoke", argv...)
//	if err != nil {
//	    var execErr *helper.ExecutionError
//	    if errors.As(err, &execErr) {
//	        log.Printf("exit code %d", execErr.ExitCode)
//	    }
//	    return err
//	}
package helper
