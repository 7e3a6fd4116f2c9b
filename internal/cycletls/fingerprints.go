package cycletls

// ja3ByBrowser holds the TLS ClientHello fingerprint each browser family
// presents, so that the handshake agrees with the User-Agent header.
var ja3ByBrowser = map[string]string{
	"chrome":  "771,4865-4866-4867-49195-49199-49196-49200-52393-52392-49171-49172-156-157-47-53,45-27-23-10-13-35-5-65037-16-51-0-18-43-11-17513-65281,29-23-24,0",
	"edge":    "771,4865-4866-4867-49195-49199-49196-49200-52393-52392-49171-49172-156-157-47-53,45-27-23-10-13-35-5-65037-16-51-0-18-43-11-17513-65281-28,29-23-24,0",
	"firefox": "771,4865-4867-4866-49195-49199-52393-52392-49196-49200-49162-49161-49171-49172-156-157-47-53-10,0-23-65281-10-11-16-5-34-51-43-13-45-28-65037,29-23-24-25-256-257,0",
	"safari":  "771,4865-4866-4867-49196-49195-52393-49200-49199-52392-49162-49161-49171-49172-156-157-47-53,65281-0-23-13-5-18-16-30032-11-10-35-22-23,29-23-24,0",
}

// JA3For returns the JA3 fingerprint for a browser family, defaulting to
// Chrome's for families without a dedicated entry.
func JA3For(browser string) string {
	if ja3, ok := ja3ByBrowser[browser]; ok {
		return ja3
	}
	return ja3ByBrowser["chrome"]
}
