package domain

// Capture mediums that imply field capture even when the explicit flag was
// not sent by the client.
const (
	CaptureMediumField = "OPC"
	CaptureMediumMall  = "Campo (Centros Comerciales)"
)

// Capture sub-location values for street-level capture.
const (
	CaptureSpotStreet = "CALLE"
	CaptureSpotModule = "MODULO"
)

var fieldCaptureMediums = map[string]bool{
	CaptureMediumField: true,
	CaptureMediumMall:  true,
}

// IsFieldCaptureMedium reports whether the medium implies field capture.
func IsFieldCaptureMedium(medium string) bool {
	return fieldCaptureMediums[medium]
}

// IsCaptureContextActive reports whether field-capture rules apply to a lead.
// Active when the explicit flag is set or the medium implies field capture.
// Moving the medium away from a field-capture value later never clears
// previously captured personnel data; callers only use this to decide which
// validation and derivation rules run.
func IsCaptureContextActive(explicitFlag bool, medium string) bool {
	return explicitFlag || IsFieldCaptureMedium(medium)
}

// IsValidCaptureSpot reports whether the sub-location value is allowed.
// Empty means "not set" and is valid outside the capture context.
func IsValidCaptureSpot(spot string) bool {
	return spot == "" || spot == CaptureSpotStreet || spot == CaptureSpotModule
}
