package store

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS depth_one_maps (
	map_id INTEGER PRIMARY KEY AUTOINCREMENT,
	map_name TEXT NOT NULL UNIQUE,
	map_path TEXT NOT NULL,
	ivar_path TEXT,
	time_path TEXT,
	tube_slot TEXT NOT NULL,
	frequency TEXT NOT NULL,
	ctime REAL NOT NULL,
	start_time REAL NOT NULL,
	stop_time REAL NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS ix_depth_one_maps_ctime ON depth_one_maps(ctime)`,
	`CREATE INDEX IF NOT EXISTS ix_depth_one_maps_tube_slot ON depth_one_maps(tube_slot)`,
	`CREATE INDEX IF NOT EXISTS ix_depth_one_maps_frequency ON depth_one_maps(frequency)`,

	// One row per (map, tile); x in [0,36), y in [0,18) for well-formed maps.
	`CREATE TABLE IF NOT EXISTS depth_one_sky_coverage (
	map_id INTEGER NOT NULL REFERENCES depth_one_maps(map_id) ON DELETE CASCADE,
	x INTEGER NOT NULL,
	y INTEGER NOT NULL,
	CONSTRAINT sky_cov_id PRIMARY KEY (map_id, x, y)
)`,
	`CREATE INDEX IF NOT EXISTS ix_depth_one_sky_coverage_x_y ON depth_one_sky_coverage(x, y)`,

	`CREATE TABLE IF NOT EXISTS time_domain_processing (
	processing_status_id INTEGER PRIMARY KEY AUTOINCREMENT,
	map_id INTEGER NOT NULL REFERENCES depth_one_maps(map_id) ON DELETE CASCADE,
	processing_start REAL,
	processing_end REAL,
	processing_status TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS ix_time_domain_processing_map_id ON time_domain_processing(map_id)`,
	`CREATE INDEX IF NOT EXISTS ix_time_domain_processing_status ON time_domain_processing(processing_status)`,

	`CREATE TABLE IF NOT EXISTS depth_one_pointing_residuals (
	pointing_residual_id INTEGER PRIMARY KEY AUTOINCREMENT,
	map_id INTEGER NOT NULL REFERENCES depth_one_maps(map_id) ON DELETE CASCADE,
	ra_offset REAL,
	dec_offset REAL
)`,
	`CREATE INDEX IF NOT EXISTS ix_depth_one_pointing_residuals_map_id ON depth_one_pointing_residuals(map_id)`,

	`CREATE TABLE IF NOT EXISTS pipeline_information (
	pipeline_information_id INTEGER PRIMARY KEY AUTOINCREMENT,
	map_id INTEGER NOT NULL REFERENCES depth_one_maps(map_id) ON DELETE CASCADE,
	sotodlib_version TEXT,
	map_maker TEXT,
	preprocess_info TEXT
)`,

	`CREATE TABLE IF NOT EXISTS tod_depth_one (
	tod_id INTEGER PRIMARY KEY AUTOINCREMENT,
	obs_id TEXT NOT NULL,
	pwv REAL,
	ctime REAL NOT NULL,
	start_time REAL,
	stop_time REAL,
	nsamples BIGINT,
	telescope TEXT NOT NULL,
	telescope_flavor TEXT,
	tube_slot TEXT NOT NULL,
	tube_flavor TEXT,
	frequency TEXT NOT NULL,
	scan_type TEXT,
	subtype TEXT,
	wafer_count INTEGER,
	duration REAL,
	az_center REAL,
	az_throw REAL,
	el_center REAL,
	el_throw REAL,
	roll_center REAL,
	roll_throw REAL,
	wafer_slots_list TEXT,
	stream_ids_list TEXT
)`,
	`CREATE INDEX IF NOT EXISTS ix_tod_depth_one_obs_id ON tod_depth_one(obs_id)`,
	`CREATE INDEX IF NOT EXISTS ix_tod_depth_one_ctime ON tod_depth_one(ctime)`,

	// TODs outlive their maps; only the link rows cascade.
	`CREATE TABLE IF NOT EXISTS link_tod_to_depth_one_map (
	tod_id INTEGER NOT NULL REFERENCES tod_depth_one(tod_id) ON DELETE CASCADE,
	map_id INTEGER NOT NULL REFERENCES depth_one_maps(map_id) ON DELETE CASCADE,
	PRIMARY KEY (tod_id, map_id)
)`,
	`CREATE INDEX IF NOT EXISTS ix_link_tod_to_depth_one_map_map_id ON link_tod_to_depth_one_map(map_id)`,

	`CREATE TABLE IF NOT EXISTS depth_one_coadds (
	coadd_id INTEGER PRIMARY KEY AUTOINCREMENT,
	coadd_name TEXT NOT NULL,
	coadd_type TEXT NOT NULL,
	map_path TEXT NOT NULL,
	ivar_path TEXT,
	rho_path TEXT,
	kappa_path TEXT,
	start_time_path TEXT,
	mean_time_path TEXT,
	end_time_path TEXT,
	frequency TEXT NOT NULL,
	ctime REAL NOT NULL,
	start_time REAL NOT NULL,
	stop_time REAL NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS link_depth_one_map_to_coadd (
	map_id INTEGER NOT NULL REFERENCES depth_one_maps(map_id) ON DELETE CASCADE,
	coadd_id INTEGER NOT NULL REFERENCES depth_one_coadds(coadd_id) ON DELETE CASCADE,
	PRIMARY KEY (map_id, coadd_id)
)`,
	`CREATE INDEX IF NOT EXISTS ix_link_depth_one_map_to_coadd_coadd_id ON link_depth_one_map_to_coadd(coadd_id)`,

	`CREATE TABLE IF NOT EXISTS atomic_maps (
	atomic_map_id INTEGER PRIMARY KEY AUTOINCREMENT,
	obs_id TEXT NOT NULL,
	telescope TEXT NOT NULL,
	freq_channel TEXT NOT NULL,
	wafer TEXT NOT NULL,
	ctime BIGINT NOT NULL,
	split_label TEXT NOT NULL,
	map_path TEXT,
	ivar_path TEXT,
	valid BOOLEAN,
	split_detail TEXT,
	prefix_path TEXT,
	elevation REAL,
	azimuth REAL,
	pwv REAL,
	dpwv REAL,
	total_weight_qu REAL,
	mean_weight_qu REAL,
	median_weight_qu REAL,
	leakage_avg REAL,
	noise_avg REAL,
	ampl_2f_avg REAL,
	gain_avg REAL,
	tau_avg REAL,
	f_hwp REAL,
	roll_angle REAL,
	scan_speed REAL,
	scan_acc REAL,
	sun_distance REAL,
	ambient_temperature REAL,
	uv REAL,
	ra_center REAL,
	dec_center REAL,
	number_dets INTEGER,
	moon_distance REAL,
	wind_speed REAL,
	wind_direction REAL,
	rqu_avg REAL
)`,
	`CREATE INDEX IF NOT EXISTS ix_atomic_maps_obs_id ON atomic_maps(obs_id)`,

	`CREATE TABLE IF NOT EXISTS atomic_map_coadds (
	coadd_id INTEGER PRIMARY KEY AUTOINCREMENT,
	coadd_name TEXT NOT NULL,
	prefix_path TEXT NOT NULL,
	platform TEXT NOT NULL,
	"interval" TEXT NOT NULL,
	start_time REAL NOT NULL,
	stop_time REAL NOT NULL,
	freq_channel TEXT NOT NULL,
	geom_file_path TEXT NOT NULL,
	split_label TEXT NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS link_atomic_map_to_coadd (
	atomic_map_id INTEGER NOT NULL REFERENCES atomic_maps(atomic_map_id) ON DELETE CASCADE,
	coadd_id INTEGER NOT NULL REFERENCES atomic_map_coadds(coadd_id) ON DELETE CASCADE,
	PRIMARY KEY (atomic_map_id, coadd_id)
)`,

	`CREATE TABLE IF NOT EXISTS link_coadd_map_to_coadd (
	parent_coadd_id INTEGER NOT NULL REFERENCES atomic_map_coadds(coadd_id) ON DELETE CASCADE,
	child_coadd_id INTEGER NOT NULL REFERENCES atomic_map_coadds(coadd_id) ON DELETE CASCADE,
	PRIMARY KEY (parent_coadd_id, child_coadd_id)
)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS depth_one_maps (
	map_id BIGSERIAL PRIMARY KEY,
	map_name TEXT NOT NULL UNIQUE,
	map_path TEXT NOT NULL,
	ivar_path TEXT,
	time_path TEXT,
	tube_slot TEXT NOT NULL,
	frequency TEXT NOT NULL,
	ctime DOUBLE PRECISION NOT NULL,
	start_time DOUBLE PRECISION NOT NULL,
	stop_time DOUBLE PRECISION NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS ix_depth_one_maps_ctime ON depth_one_maps(ctime)`,
	`CREATE INDEX IF NOT EXISTS ix_depth_one_maps_tube_slot ON depth_one_maps(tube_slot)`,
	`CREATE INDEX IF NOT EXISTS ix_depth_one_maps_frequency ON depth_one_maps(frequency)`,

	`CREATE TABLE IF NOT EXISTS depth_one_sky_coverage (
	map_id BIGINT NOT NULL REFERENCES depth_one_maps(map_id) ON DELETE CASCADE,
	x INTEGER NOT NULL,
	y INTEGER NOT NULL,
	CONSTRAINT sky_cov_id PRIMARY KEY (map_id, x, y)
)`,
	`CREATE INDEX IF NOT EXISTS ix_depth_one_sky_coverage_x_y ON depth_one_sky_coverage(x, y)`,

	`CREATE TABLE IF NOT EXISTS time_domain_processing (
	processing_status_id BIGSERIAL PRIMARY KEY,
	map_id BIGINT NOT NULL REFERENCES depth_one_maps(map_id) ON DELETE CASCADE,
	processing_start DOUBLE PRECISION,
	processing_end DOUBLE PRECISION,
	processing_status TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS ix_time_domain_processing_map_id ON time_domain_processing(map_id)`,
	`CREATE INDEX IF NOT EXISTS ix_time_domain_processing_status ON time_domain_processing(processing_status)`,

	`CREATE TABLE IF NOT EXISTS depth_one_pointing_residuals (
	pointing_residual_id BIGSERIAL PRIMARY KEY,
	map_id BIGINT NOT NULL REFERENCES depth_one_maps(map_id) ON DELETE CASCADE,
	ra_offset DOUBLE PRECISION,
	dec_offset DOUBLE PRECISION
)`,
	`CREATE INDEX IF NOT EXISTS ix_depth_one_pointing_residuals_map_id ON depth_one_pointing_residuals(map_id)`,

	`CREATE TABLE IF NOT EXISTS pipeline_information (
	pipeline_information_id BIGSERIAL PRIMARY KEY,
	map_id BIGINT NOT NULL REFERENCES depth_one_maps(map_id) ON DELETE CASCADE,
	sotodlib_version TEXT,
	map_maker TEXT,
	preprocess_info TEXT
)`,

	`CREATE TABLE IF NOT EXISTS tod_depth_one (
	tod_id BIGSERIAL PRIMARY KEY,
	obs_id TEXT NOT NULL,
	pwv DOUBLE PRECISION,
	ctime DOUBLE PRECISION NOT NULL,
	start_time DOUBLE PRECISION,
	stop_time DOUBLE PRECISION,
	nsamples BIGINT,
	telescope TEXT NOT NULL,
	telescope_flavor TEXT,
	tube_slot TEXT NOT NULL,
	tube_flavor TEXT,
	frequency TEXT NOT NULL,
	scan_type TEXT,
	subtype TEXT,
	wafer_count INTEGER,
	duration DOUBLE PRECISION,
	az_center DOUBLE PRECISION,
	az_throw DOUBLE PRECISION,
	el_center DOUBLE PRECISION,
	el_throw DOUBLE PRECISION,
	roll_center DOUBLE PRECISION,
	roll_throw DOUBLE PRECISION,
	wafer_slots_list TEXT,
	stream_ids_list TEXT
)`,
	`CREATE INDEX IF NOT EXISTS ix_tod_depth_one_obs_id ON tod_depth_one(obs_id)`,
	`CREATE INDEX IF NOT EXISTS ix_tod_depth_one_ctime ON tod_depth_one(ctime)`,

	// TODs outlive their maps; only the link rows cascade.
	`CREATE TABLE IF NOT EXISTS link_tod_to_depth_one_map (
	tod_id BIGINT NOT NULL REFERENCES tod_depth_one(tod_id) ON DELETE CASCADE,
	map_id BIGINT NOT NULL REFERENCES depth_one_maps(map_id) ON DELETE CASCADE,
	PRIMARY KEY (tod_id, map_id)
)`,
	`CREATE INDEX IF NOT EXISTS ix_link_tod_to_depth_one_map_map_id ON link_tod_to_depth_one_map(map_id)`,

	`CREATE TABLE IF NOT EXISTS depth_one_coadds (
	coadd_id BIGSERIAL PRIMARY KEY,
	coadd_name TEXT NOT NULL,
	coadd_type TEXT NOT NULL,
	map_path TEXT NOT NULL,
	ivar_path TEXT,
	rho_path TEXT,
	kappa_path TEXT,
	start_time_path TEXT,
	mean_time_path TEXT,
	end_time_path TEXT,
	frequency TEXT NOT NULL,
	ctime DOUBLE PRECISION NOT NULL,
	start_time DOUBLE PRECISION NOT NULL,
	stop_time DOUBLE PRECISION NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS link_depth_one_map_to_coadd (
	map_id BIGINT NOT NULL REFERENCES depth_one_maps(map_id) ON DELETE CASCADE,
	coadd_id BIGINT NOT NULL REFERENCES depth_one_coadds(coadd_id) ON DELETE CASCADE,
	PRIMARY KEY (map_id, coadd_id)
)`,
	`CREATE INDEX IF NOT EXISTS ix_link_depth_one_map_to_coadd_coadd_id ON link_depth_one_map_to_coadd(coadd_id)`,

	`CREATE TABLE IF NOT EXISTS atomic_maps (
	atomic_map_id BIGSERIAL PRIMARY KEY,
	obs_id TEXT NOT NULL,
	telescope TEXT NOT NULL,
	freq_channel TEXT NOT NULL,
	wafer TEXT NOT NULL,
	ctime BIGINT NOT NULL,
	split_label TEXT NOT NULL,
	map_path TEXT,
	ivar_path TEXT,
	valid BOOLEAN,
	split_detail TEXT,
	prefix_path TEXT,
	elevation DOUBLE PRECISION,
	azimuth DOUBLE PRECISION,
	pwv DOUBLE PRECISION,
	dpwv DOUBLE PRECISION,
	total_weight_qu DOUBLE PRECISION,
	mean_weight_qu DOUBLE PRECISION,
	median_weight_qu DOUBLE PRECISION,
	leakage_avg DOUBLE PRECISION,
	noise_avg DOUBLE PRECISION,
	ampl_2f_avg DOUBLE PRECISION,
	gain_avg DOUBLE PRECISION,
	tau_avg DOUBLE PRECISION,
	f_hwp DOUBLE PRECISION,
	roll_angle DOUBLE PRECISION,
	scan_speed DOUBLE PRECISION,
	scan_acc DOUBLE PRECISION,
	sun_distance DOUBLE PRECISION,
	ambient_temperature DOUBLE PRECISION,
	uv DOUBLE PRECISION,
	ra_center DOUBLE PRECISION,
	dec_center DOUBLE PRECISION,
	number_dets INTEGER,
	moon_distance DOUBLE PRECISION,
	wind_speed DOUBLE PRECISION,
	wind_direction DOUBLE PRECISION,
	rqu_avg DOUBLE PRECISION
)`,
	`CREATE INDEX IF NOT EXISTS ix_atomic_maps_obs_id ON atomic_maps(obs_id)`,

	`CREATE TABLE IF NOT EXISTS atomic_map_coadds (
	coadd_id BIGSERIAL PRIMARY KEY,
	coadd_name TEXT NOT NULL,
	prefix_path TEXT NOT NULL,
	platform TEXT NOT NULL,
	"interval" TEXT NOT NULL,
	start_time DOUBLE PRECISION NOT NULL,
	stop_time DOUBLE PRECISION NOT NULL,
	freq_channel TEXT NOT NULL,
	geom_file_path TEXT NOT NULL,
	split_label TEXT NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS link_atomic_map_to_coadd (
	atomic_map_id BIGINT NOT NULL REFERENCES atomic_maps(atomic_map_id) ON DELETE CASCADE,
	coadd_id BIGINT NOT NULL REFERENCES atomic_map_coadds(coadd_id) ON DELETE CASCADE,
	PRIMARY KEY (atomic_map_id, coadd_id)
)`,

	`CREATE TABLE IF NOT EXISTS link_coadd_map_to_coadd (
	parent_coadd_id BIGINT NOT NULL REFERENCES atomic_map_coadds(coadd_id) ON DELETE CASCADE,
	child_coadd_id BIGINT NOT NULL REFERENCES atomic_map_coadds(coadd_id) ON DELETE CASCADE,
	PRIMARY KEY (parent_coadd_id, child_coadd_id)
)`,
}
