package types

// Project table names.
const (
	GridMapIoTbl                = "GridMapIoTbl"
	BasementIoTbl               = "BasementIoTbl"
	CrustIoTbl                  = "CrustIoTbl"
	ContCrustalThicknessIoTbl   = "ContCrustalThicknessIoTbl"
	OceaCrustalThicknessIoTbl   = "OceaCrustalThicknessIoTbl"
	BasaltThicknessIoTbl        = "BasaltThicknessIoTbl"
	MntlHeatFlowIoTbl           = "MntlHeatFlowIoTbl"
	SnapshotIoTbl               = "SnapshotIoTbl"
	StratIoTbl                  = "StratIoTbl"
	RunOptionsIoTbl             = "RunOptionsIoTbl"
	LithotypeIoTbl              = "LithotypeIoTbl"
	PressureFaultcutIoTbl       = "PressureFaultcutIoTbl"
	SurfaceTempIoTbl            = "SurfaceTempIoTbl"
	SurfaceDepthIoTbl           = "SurfaceDepthIoTbl"
	CTCIoTbl                    = "CTCIoTbl"
	PalinspasticIoTbl           = "PalinspasticIoTbl"
	TwoWayTimeIoTbl             = "TwoWayTimeIoTbl"
	MobLayThicknIoTbl           = "MobLayThicknIoTbl"
	AllochthonLithoIoTbl        = "AllochthonLithoIoTbl"
	AllochthonLithoDistribIoTbl = "AllochthonLithoDistribIoTbl"
	AllochthonLithoInterpIoTbl  = "AllochthonLithoInterpIoTbl"
	SourceRockLithoIoTbl        = "SourceRockLithoIoTbl"
	FluidtypeIoTbl              = "FluidtypeIoTbl"
	TimeIoTbl                   = "TimeIoTbl"
	ThreeDTimeIoTbl             = "3DTimeIoTbl"
	OneDTimeIoTbl               = "1DTimeIoTbl"
)

// Map registry columns.
const (
	ColReferredBy  = "ReferredBy"
	ColMapName     = "MapName"
	ColMapType     = "MapType"
	ColMapFileName = "MapFileName"
	ColMapSeqNbr   = "MapSeqNbr"
)

// OutputTableNames lists the simulator output tables cleared by default when
// cleaning is requested without an explicit table list.
var OutputTableNames = []string{
	TimeIoTbl,
	ThreeDTimeIoTbl,
	OneDTimeIoTbl,
}

// GridMapColumns declares the map registry table.
var GridMapColumns = []Column{
	{Name: ColReferredBy, Kind: KindString},
	{Name: ColMapName, Kind: KindString},
	{Name: ColMapType, Kind: KindString},
	{Name: ColMapFileName, Kind: KindString},
	{Name: ColMapSeqNbr, Kind: KindInt},
}
