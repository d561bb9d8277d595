package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE process_templates (
				id VARCHAR(64) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				target_module VARCHAR(50) NOT NULL CHECK (target_module IN ('service', 'production')),
				form_schema JSONB NOT NULL DEFAULT '[]',
				workflow JSONB NOT NULL DEFAULT '[]',
				version INT NOT NULL DEFAULT 1,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_process_templates_target_module ON process_templates(target_module);
			CREATE INDEX idx_process_templates_created_at ON process_templates(created_at);
		`,
		2: `
			CREATE TABLE orders (
				id VARCHAR(64) PRIMARY KEY,
				template_id VARCHAR(64),
				template_version INT NOT NULL DEFAULT 0,
				target_module VARCHAR(50) NOT NULL,
				current_node_id VARCHAR(255) NOT NULL DEFAULT '',
				status VARCHAR(255) NOT NULL DEFAULT '',
				dynamic_data JSONB NOT NULL DEFAULT '{}',
				assigned_to VARCHAR(255) NOT NULL DEFAULT '',
				created_by VARCHAR(255) NOT NULL DEFAULT '',
				version INT NOT NULL DEFAULT 1,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_orders_template_id ON orders(template_id);
			CREATE INDEX idx_orders_target_module ON orders(target_module);
			CREATE INDEX idx_orders_status ON orders(status);
			CREATE INDEX idx_orders_assigned_to ON orders(assigned_to);
			CREATE INDEX idx_orders_created_at ON orders(created_at);
		`,
	}
}
