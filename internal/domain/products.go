package domain

// TOD is one time-ordered data set that went into one or more depth-1 maps.
// ObsID has the form obs_<ctime>_<platform>_<suffix>.
type TOD struct {
	ID              int64    `json:"tod_id" db:"tod_id"`
	ObsID           string   `json:"obs_id" db:"obs_id"`
	PWV             *float64 `json:"pwv,omitempty" db:"pwv"`
	CTime           float64  `json:"ctime" db:"ctime"`
	StartTime       *float64 `json:"start_time,omitempty" db:"start_time"`
	StopTime        *float64 `json:"stop_time,omitempty" db:"stop_time"`
	NSamples        *int64   `json:"nsamples,omitempty" db:"nsamples"`
	Telescope       string   `json:"telescope" db:"telescope"`
	TelescopeFlavor *string  `json:"telescope_flavor,omitempty" db:"telescope_flavor"`
	TubeSlot        string   `json:"tube_slot" db:"tube_slot"`
	TubeFlavor      *string  `json:"tube_flavor,omitempty" db:"tube_flavor"`
	Frequency       string   `json:"frequency" db:"frequency"`
	ScanType        *string  `json:"scan_type,omitempty" db:"scan_type"`
	Subtype         *string  `json:"subtype,omitempty" db:"subtype"`
	WaferCount      *int64   `json:"wafer_count,omitempty" db:"wafer_count"`
	Duration        *float64 `json:"duration,omitempty" db:"duration"`
	AzCenter        *float64 `json:"az_center,omitempty" db:"az_center"`
	AzThrow         *float64 `json:"az_throw,omitempty" db:"az_throw"`
	ElCenter        *float64 `json:"el_center,omitempty" db:"el_center"`
	ElThrow         *float64 `json:"el_throw,omitempty" db:"el_throw"`
	RollCenter      *float64 `json:"roll_center,omitempty" db:"roll_center"`
	RollThrow       *float64 `json:"roll_throw,omitempty" db:"roll_throw"`
	WaferSlotsList  *string  `json:"wafer_slots_list,omitempty" db:"wafer_slots_list"`
	StreamIDsList   *string  `json:"stream_ids_list,omitempty" db:"stream_ids_list"`
}

// DepthOneCoadd is a coadd built from several depth-1 maps.
type DepthOneCoadd struct {
	ID            int64   `json:"coadd_id" db:"coadd_id"`
	CoaddName     string  `json:"coadd_name" db:"coadd_name"`
	CoaddType     string  `json:"coadd_type" db:"coadd_type"`
	MapPath       string  `json:"map_path" db:"map_path"`
	IvarPath      *string `json:"ivar_path,omitempty" db:"ivar_path"`
	RhoPath       *string `json:"rho_path,omitempty" db:"rho_path"`
	KappaPath     *string `json:"kappa_path,omitempty" db:"kappa_path"`
	StartTimePath *string `json:"start_time_path,omitempty" db:"start_time_path"`
	MeanTimePath  *string `json:"mean_time_path,omitempty" db:"mean_time_path"`
	EndTimePath   *string `json:"end_time_path,omitempty" db:"end_time_path"`
	Frequency     string  `json:"frequency" db:"frequency"`
	CTime         float64 `json:"ctime" db:"ctime"`
	StartTime     float64 `json:"start_time" db:"start_time"`
	StopTime      float64 `json:"stop_time" db:"stop_time"`
}

// AtomicMap is a single-observation, single-wafer map from the SAT pipeline.
type AtomicMap struct {
	ID                 int64    `json:"atomic_map_id" db:"atomic_map_id"`
	ObsID              string   `json:"obs_id" db:"obs_id"`
	Telescope          string   `json:"telescope" db:"telescope"`
	FreqChannel        string   `json:"freq_channel" db:"freq_channel"`
	Wafer              string   `json:"wafer" db:"wafer"`
	CTime              int64    `json:"ctime" db:"ctime"`
	SplitLabel         string   `json:"split_label" db:"split_label"`
	MapPath            *string  `json:"map_path,omitempty" db:"map_path"`
	IvarPath           *string  `json:"ivar_path,omitempty" db:"ivar_path"`
	Valid              *bool    `json:"valid,omitempty" db:"valid"`
	SplitDetail        *string  `json:"split_detail,omitempty" db:"split_detail"`
	PrefixPath         *string  `json:"prefix_path,omitempty" db:"prefix_path"`
	Elevation          *float64 `json:"elevation,omitempty" db:"elevation"`
	Azimuth            *float64 `json:"azimuth,omitempty" db:"azimuth"`
	PWV                *float64 `json:"pwv,omitempty" db:"pwv"`
	DPWV               *float64 `json:"dpwv,omitempty" db:"dpwv"`
	TotalWeightQU      *float64 `json:"total_weight_qu,omitempty" db:"total_weight_qu"`
	MeanWeightQU       *float64 `json:"mean_weight_qu,omitempty" db:"mean_weight_qu"`
	MedianWeightQU     *float64 `json:"median_weight_qu,omitempty" db:"median_weight_qu"`
	LeakageAvg         *float64 `json:"leakage_avg,omitempty" db:"leakage_avg"`
	NoiseAvg           *float64 `json:"noise_avg,omitempty" db:"noise_avg"`
	Ampl2fAvg          *float64 `json:"ampl_2f_avg,omitempty" db:"ampl_2f_avg"`
	GainAvg            *float64 `json:"gain_avg,omitempty" db:"gain_avg"`
	TauAvg             *float64 `json:"tau_avg,omitempty" db:"tau_avg"`
	FHWP               *float64 `json:"f_hwp,omitempty" db:"f_hwp"`
	RollAngle          *float64 `json:"roll_angle,omitempty" db:"roll_angle"`
	ScanSpeed          *float64 `json:"scan_speed,omitempty" db:"scan_speed"`
	ScanAcc            *float64 `json:"scan_acc,omitempty" db:"scan_acc"`
	SunDistance        *float64 `json:"sun_distance,omitempty" db:"sun_distance"`
	AmbientTemperature *float64 `json:"ambient_temperature,omitempty" db:"ambient_temperature"`
	UV                 *float64 `json:"uv,omitempty" db:"uv"`
	RACenter           *float64 `json:"ra_center,omitempty" db:"ra_center"`
	DecCenter          *float64 `json:"dec_center,omitempty" db:"dec_center"`
	NumberDets         *int64   `json:"number_dets,omitempty" db:"number_dets"`
	MoonDistance       *float64 `json:"moon_distance,omitempty" db:"moon_distance"`
	WindSpeed          *float64 `json:"wind_speed,omitempty" db:"wind_speed"`
	WindDirection      *float64 `json:"wind_direction,omitempty" db:"wind_direction"`
	RQUAvg             *float64 `json:"rqu_avg,omitempty" db:"rqu_avg"`
}

// AtomicMapCoadd groups atomic maps over an interval ("daily", "weekly", ...).
// Coadds of coadds are linked parent to child.
type AtomicMapCoadd struct {
	ID           int64   `json:"coadd_id" db:"coadd_id"`
	CoaddName    string  `json:"coadd_name" db:"coadd_name"`
	PrefixPath   string  `json:"prefix_path" db:"prefix_path"`
	Platform     string  `json:"platform" db:"platform"`
	Interval     string  `json:"interval" db:"interval"`
	StartTime    float64 `json:"start_time" db:"start_time"`
	StopTime     float64 `json:"stop_time" db:"stop_time"`
	FreqChannel  string  `json:"freq_channel" db:"freq_channel"`
	GeomFilePath string  `json:"geom_file_path" db:"geom_file_path"`
	SplitLabel   string  `json:"split_label" db:"split_label"`
}
