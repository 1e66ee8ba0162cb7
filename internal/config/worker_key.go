package config

type WorkerKeyStruct struct {
	GenerateSetsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	GenerateSetsQueue: "generate_sets_queue",
}
