package app

const ServiceName = "aluno-service"

// Version is overridden at build time with -ldflags "-X ...app.Version=...".
var Version = "1.0.0"
