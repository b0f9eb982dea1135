package metric

const keyPrefix = "mios.upnp"

// BuildKey derives the collector item key for a (class, attribute)
// pair: mios.upnp[<class>,<attribute>]. The bracketed form embeds both
// components unambiguously, so distinct pairs never collide, and the
// live pipeline and the exporter produce identical keys for identical
// pairs.
func BuildKey(class, attribute string) string {
	return keyPrefix + "[" + class + "," + attribute + "]"
}
