package http

// RegisterStatic exposes registerStatic for tests.
var RegisterStatic = registerStatic
