package system

type ArtifactStatus interface {
	ScalerLoaded() bool
	ClassifierLoaded() bool
}

type ChainStatus interface {
	Loaded() bool
}
