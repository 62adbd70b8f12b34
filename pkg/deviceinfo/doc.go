// Package deviceinfo describes the device an application instance runs on
// and provides sources that collect that description.
//
// The Info struct carries the attributes the fingerprinting layer hashes:
// device identifier and name, OS name and version, application version,
// screen dimensions, timezone, and locale. How those attributes are obtained
// depends on the platform, so collection sits behind the Source interface:
//
//   - Static – returns a caller-supplied Info verbatim. This is the source
//     for platforms with their own introspection APIs, where the host
//     application gathers the values and hands them over.
//   - Host – best-effort introspection of the local machine (hostname, OS,
//     timezone, locale from the environment). Suitable for headless agents,
//     CLIs, and development.
//   - LoadProfile – reads an Info from a YAML profile file, for fleets where
//     device identity is provisioned rather than detected.
//
// # Usage
//
//	src := deviceinfo.NewHost(deviceinfo.WithAppVersion("1.4.2"))
//	info, err := src.Info(ctx)
//	if err != nil {
//	    return err
//	}
//
// Locale values are normalised to BCP 47 (e.g. "en_US.UTF-8" becomes
// "en-US") so the same device produces the same fingerprint regardless of
// how the environment spells its locale.
package deviceinfo
